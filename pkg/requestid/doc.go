// Package requestid assigns an ID to every HTTP request and makes it
// available through the request context and the logger.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware(requestid.WithGenerator(ids)))
package requestid

package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/commons/pkg/cache"
	"github.com/dmitrymomot/commons/pkg/config"
)

type testConfigSuccess struct {
	TestString string `env:"TEST_STRING_SUCCESS" envDefault:"default_value"`
	TestInt    int    `env:"TEST_INT_SUCCESS" envDefault:"42"`
	TestBool   bool   `env:"TEST_BOOL_SUCCESS" envDefault:"true"`
}

type testConfigDefault struct {
	TestString string `env:"TEST_STRING_DEFAULT" envDefault:"default_value"`
	TestInt    int    `env:"TEST_INT_DEFAULT" envDefault:"42"`
}

type requiredConfig struct {
	Required string `env:"REQUIRED_VALUE,required"`
}

type fileConfig struct {
	String   string   `env:"COMMONS_TEST_FILE_STRING"`
	Int      int      `env:"COMMONS_TEST_FILE_INT"`
	List     []string `env:"COMMONS_TEST_FILE_LIST" envSeparator:","`
	Quoted   string   `env:"COMMONS_TEST_FILE_QUOTED"`
	Priority string   `env:"COMMONS_TEST_FILE_PRIORITY"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("TEST_STRING_SUCCESS", "test_value")
	t.Setenv("TEST_INT_SUCCESS", "100")
	t.Setenv("TEST_BOOL_SUCCESS", "false")

	var cfg testConfigSuccess
	err := config.Load(config.NewLoader(), &cfg)

	require.NoError(t, err)
	assert.Equal(t, "test_value", cfg.TestString)
	assert.Equal(t, 100, cfg.TestInt)
	assert.False(t, cfg.TestBool)
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("TEST_STRING_DEFAULT")
	os.Unsetenv("TEST_INT_DEFAULT")

	var cfg testConfigDefault
	require.NoError(t, config.Load(config.NewLoader(), &cfg))
	assert.Equal(t, "default_value", cfg.TestString)
	assert.Equal(t, 42, cfg.TestInt)
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("REQUIRED_VALUE")

	var cfg requiredConfig
	err := config.Load(config.NewLoader(), &cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	assert.Panics(t, func() {
		config.MustLoad(config.NewLoader(), &cfg)
	})
}

func TestLoad_CachedPerLoader(t *testing.T) {
	t.Setenv("TEST_STRING_SUCCESS", "first")
	l := config.NewLoader()

	var first testConfigSuccess
	require.NoError(t, config.Load(l, &first))

	t.Setenv("TEST_STRING_SUCCESS", "second")

	var again testConfigSuccess
	require.NoError(t, config.Load(l, &again))
	assert.Equal(t, "first", again.TestString, "same loader returns the cached value")

	var fresh testConfigSuccess
	require.NoError(t, config.Load(config.NewLoader(), &fresh))
	assert.Equal(t, "second", fresh.TestString, "loaders do not share state")

	l.Reset()
	require.NoError(t, config.Load(l, &again))
	assert.Equal(t, "second", again.TestString, "reset drops the cache")
}

func TestLoad_InvalidArguments(t *testing.T) {
	var cfg testConfigSuccess
	assert.ErrorIs(t, config.Load(nil, &cfg), config.ErrNilLoader)
	assert.ErrorIs(t, config.Load[testConfigSuccess](config.NewLoader(), nil), config.ErrNilPointer)
}

func TestLoad_WithEnvironment(t *testing.T) {
	l := config.NewLoader(config.WithEnvironment(map[string]string{
		"CACHE_NAME":        "sessions",
		"CACHE_MAX_SIZE":    "64",
		"CACHE_WEAK_VALUES": "true",
	}))

	var cfg cache.Config
	require.NoError(t, config.Load(l, &cfg))
	assert.Equal(t, cache.Config{Name: "sessions", MaxSize: 64, WeakValues: true}, cfg)

	var guard cache.GuardConfig
	require.NoError(t, config.Load(l, &guard))
	assert.InDelta(t, 0.25, guard.TrimFraction, 1e-9)
	assert.Equal(t, uint64(268435456), guard.SoftLimit)
}

func TestLoad_WithPrefix(t *testing.T) {
	l := config.NewLoader(
		config.WithPrefix("APP_"),
		config.WithEnvironment(map[string]string{"APP_CACHE_MAX_SIZE": "7"}),
	)

	var cfg cache.Config
	require.NoError(t, config.Load(l, &cfg))
	assert.Equal(t, 7, cfg.MaxSize)
	assert.Equal(t, "default", cfg.Name)
}

func TestLoad_EnvFiles(t *testing.T) {
	keys := []string{
		"COMMONS_TEST_FILE_STRING", "COMMONS_TEST_FILE_INT", "COMMONS_TEST_FILE_LIST",
		"COMMONS_TEST_FILE_QUOTED", "COMMONS_TEST_FILE_PRIORITY",
	}
	for _, k := range keys {
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var cfg fileConfig
		err := config.Load(config.NewLoader(config.WithEnvFiles("testdata/.env.missing")), &cfg)
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})

	t.Run("values from file", func(t *testing.T) {
		os.Setenv("COMMONS_TEST_FILE_PRIORITY", "process_value")

		var cfg fileConfig
		require.NoError(t, config.Load(config.NewLoader(config.WithEnvFiles("testdata/.env.test")), &cfg))
		assert.Equal(t, "from_file", cfg.String)
		assert.Equal(t, 1234, cfg.Int)
		assert.Equal(t, []string{"item1", "item2", "item3"}, cfg.List)
		assert.Equal(t, "quoted value", cfg.Quoted)
		assert.Equal(t, "process_value", cfg.Priority, "process environment wins over the file")
	})
}

package main

import "time"

type appConfig struct {
	Env       string        `env:"APP_ENV" envDefault:"development"`
	Service   string        `env:"APP_NAME" envDefault:"cachedemo"`
	StatsAddr string        `env:"STATS_ADDR" envDefault:":9090"`
	IDBackend string        `env:"ID_BACKEND" envDefault:"memory"` // memory | redis | uuid
	Locale    string        `env:"COLLATE_LOCALE" envDefault:"en"`
	Tick      time.Duration `env:"DEMO_TICK" envDefault:"50ms"`
	Report    time.Duration `env:"DEMO_REPORT_INTERVAL" envDefault:"5s"`
}

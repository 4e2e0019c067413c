package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Database Database `koanf:"db"`
	Currency Currency `koanf:"currency"`
	Budget   Budget   `koanf:"budget"`
}

type Database struct {
	Path string `koanf:"path"`
}

type Currency struct {
	// Default is the display currency assigned to a new user.
	Default string `koanf:"default"`
	// Rate is the fixed base-unit-per-USD conversion rate used for display.
	Rate float64 `koanf:"rate"`
}

// Budget is the template applied when a new monthly period is created.
type Budget struct {
	TotalLimit float64            `koanf:"totallimit"`
	Categories map[string]float64 `koanf:"categories"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Database: Database{
			Path: "./fintalk.db",
		},
		Currency: Currency{
			Default: "INR",
			Rate:    83,
		},
		Budget: Budget{
			TotalLimit: 8500,
			Categories: map[string]float64{
				"Food":          3000,
				"Transport":     1500,
				"Entertainment": 1000,
				"Shopping":      2000,
				"Health":        1000,
				"Investment":    0,
			},
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "FINTALK_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FINTALK_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

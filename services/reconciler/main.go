package main

import (
	"monadtok/pkg/config"
	app "monadtok/services/reconciler/internal/app"
)

// @title           Reconciler Service API
// @version         1.0
// @description     Background repair worker driving stuck contract deployments to a terminal state
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8005
// @BasePath  /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.FactoryAddress == "" {
		panic("FACTORY_ADDRESS must be set in environment variables")
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		panic(err)
	}

	if err := application.Run(); err != nil {
		panic(err)
	}

	application.Wait()

	if err := application.Shutdown(); err != nil {
		panic(err)
	}
}

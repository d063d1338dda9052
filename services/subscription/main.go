package main

import (
	"monadtok/pkg/config"
	app "monadtok/services/subscription/internal/app"
)

// @title           Subscription Service API
// @version         1.0
// @description     Creator subscription deployment, minting and earnings service for MonadTok
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8003
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Validate JWT_SECRET for services that use JWT
	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	// Deployments and withdrawals are signed by the operator key
	if cfg.OperatorKey == "" {
		panic("OPERATOR_KEY must be set in environment variables")
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

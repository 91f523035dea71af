// authsvc
// @title authsvc
// @version 0.1.0
// @description Issues signed JWTs to users and service accounts listed in a JSON credential file.

// @contact.name András
// @contact.email andrasna@proton.me

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"go.uber.org/fx"

	"github.com/andrasnagy-data/authsvc/internal/components/auth"
	"github.com/andrasnagy-data/authsvc/internal/server"
	"github.com/andrasnagy-data/authsvc/internal/shared/config"
	"github.com/andrasnagy-data/authsvc/internal/shared/logging"
	"github.com/andrasnagy-data/authsvc/internal/shared/token"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			server.NewServer,
			server.NewHealthSrvc,
			server.NewHealthHandler,
			auth.NewRepo,
			auth.NewVerifier,
			token.NewIssuer,
			auth.NewAuthService,
			fx.Annotate(auth.NewRouter, fx.ResultTags(`name:"authRouter"`)),
		),
		fx.Invoke((*server.Server).Start),
	).Run()
}

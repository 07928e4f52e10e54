package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/authctx"
	"squash-courts/backend/internal/config"
	"squash-courts/backend/internal/firebase"
	"squash-courts/backend/internal/logger"
)

func main() {
	uid := flag.String("uid", "", "target firebase uid")
	revoke := flag.Bool("revoke", false, "remove admin access instead of granting it")
	flag.Parse()

	logger.Init()
	if *uid == "" {
		log.Fatal().Msg("uid is required: -uid=xxxxx")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config.Load")
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase.NewApp")
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("app.Auth")
	}

	if err := authClient.SetCustomUserClaims(ctx, *uid, authctx.AdminClaims(!*revoke)); err != nil {
		log.Fatal().Err(err).Msg("SetCustomUserClaims")
	}

	if *revoke {
		fmt.Println("ok: admin claims revoked for", *uid)
		return
	}
	fmt.Println("ok: admin claims set for", *uid)
}

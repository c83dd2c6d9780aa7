// Command token mints and revokes staff bearer tokens for the /api routes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/auth"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/cache"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/config"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/logger"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/shopify"
)

func main() {
	var (
		staff    string
		scopes   string
		ttl      time.Duration
		jti      string
		revokeIn time.Duration
	)
	flag.StringVar(&staff, "staff", "", "Staff identifier written to the token subject")
	flag.StringVar(&scopes, "scopes", "", "Comma separated scopes (default: all)")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (default: auth.access_token_expiration)")
	flag.StringVar(&jti, "jti", "", "Token id to revoke")
	flag.DurationVar(&revokeIn, "revoke-ttl", 24*time.Hour, "How long the revocation is kept; use the token's remaining lifetime")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	switch args[0] {
	case "mint":
		parsed, err := auth.ParseScopes(scopes)
		if err != nil {
			log.Fatal("Invalid scopes", zap.String("scopes", scopes), zap.Error(err))
		}
		svc := auth.NewJWTService(cfg.Auth, shopify.NormalizeShopDomain(cfg.Shopify.ShopDomain))
		token, err := svc.GenerateToken(auth.TokenInput{Staff: staff, Scopes: parsed, TTL: ttl})
		if err != nil {
			log.Fatal("Failed to mint token", zap.Error(err))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(token); err != nil {
			log.Fatal("Failed to write token", zap.Error(err))
		}

	case "revoke":
		if jti == "" {
			log.Fatal("Token id required. Usage: token -jti <id> revoke")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Revocation needs Redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		}
		defer client.Close()
		if err := auth.NewRedisTokenRevoker(client).Revoke(ctx, jti, revokeIn); err != nil {
			log.Fatal("Failed to revoke token", zap.Error(err))
		}
		log.Info("Token revoked", zap.String("jti", jti), zap.Duration("ttl", revokeIn))

	default:
		log.Error("Unknown command", zap.String("command", args[0]))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Quick Bulk Product Editor - staff tokens

Usage:
  token [flags] <command>

Commands:
  mint      Sign a new bearer token and print it as JSON
  revoke    Revoke a token by id (requires Redis)

Flags:
  -staff string       Staff identifier (required for mint)
  -scopes string      products:read,products:write,views:write (default: all)
  -ttl duration       Token lifetime
  -jti string         Token id (required for revoke)
  -revoke-ttl         Revocation lifetime (default: 24h)`)
}

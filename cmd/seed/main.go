// Command seed creates demo wallet accounts and funds them.
package main

import (
	"context"
	"errors"
	"log"
	"strings"

	"tuplepay/internal/config"
	apperrors "tuplepay/internal/errors"
	"tuplepay/internal/repositories"
	"tuplepay/internal/services/auth"
	"tuplepay/internal/services/cashback"
	"tuplepay/internal/services/wallet"
	"tuplepay/internal/utils"
	"tuplepay/internal/validation"

	"github.com/shopspring/decimal"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	usernames := strings.Split(config.GetEnv("SEED_USERNAMES", "alice,bob"), ",")
	password := config.GetEnv("SEED_PASSWORD", "")
	if password == "" || !validation.IsStrongPassword(password) {
		log.Fatal("SEED_PASSWORD must be set: at least 8 characters with a special character")
	}
	initial := decimal.Zero
	if raw := config.GetEnv("SEED_BALANCE", ""); raw != "" {
		amount, err := validation.ParseAmount(raw)
		if err != nil {
			log.Fatalf("Invalid SEED_BALANCE: %v", err)
		}
		initial = amount
	}

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repositories.CloseDB(db)
	store := repositories.NewStore(db)

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("Invalid token configuration: %v", err)
	}
	// Seeded balances carry no cashback.
	policy, err := cashback.NewPolicy(cashback.Config{}, nil)
	if err != nil {
		log.Fatalf("Invalid cashback configuration: %v", err)
	}

	authService := auth.NewService(store.Accounts(), tokens)
	walletService := wallet.NewService(store, policy, nil, nil, wallet.WalletConfig{}, nil)

	ctx := context.Background()
	for _, username := range usernames {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}

		account, err := authService.Register(ctx, username, "", password)
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			log.Printf("Account %q already exists", username)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create account %q: %v", username, err)
		}

		if initial.IsPositive() {
			if _, err := walletService.Recharge(ctx, account.ID, initial); err != nil {
				log.Fatalf("Failed to fund account %q: %v", username, err)
			}
		}
		log.Printf("✅ Account %q created with balance %s", username, initial.StringFixed(2))
	}
}

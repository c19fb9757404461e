// Command setup_ses_templates creates or updates the SES templates used for
// customer confirmations and manager responses.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"inquirydesk/internal/config"
	"inquirydesk/internal/logging"
	"inquirydesk/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, "console").Named("ses_templates")
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := services.NewSESClient(ctx, cfg.Email.AWSRegion)
	if err != nil {
		log.Fatal("failed to create SES client", zap.Error(err))
	}

	templates := []services.EmailTemplate{
		services.ConfirmationTemplate(cfg.Email.ConfirmationTemplate),
		services.ResponseTemplate(cfg.Email.ResponseTemplate),
	}
	failed := false
	for _, t := range templates {
		result, err := services.UpsertTemplate(ctx, client, t)
		if err != nil {
			log.Error("template setup failed", zap.String("template", t.Name), zap.Error(err))
			failed = true
			continue
		}
		fmt.Printf("Template %s %s.\n", t.Name, result)
	}
	if failed {
		os.Exit(1)
	}
}

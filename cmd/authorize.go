package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"wallet_dashboard_back/internal/wallet"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/service"
)

var (
	authorizeExpires string
	authorizeLimit   string
	authorizeNotes   string
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize <user> <admin>",
	Short: "Authorize an admin to request transfers from a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := authorizeOptions(time.Now())
		if err != nil {
			return err
		}
		return withService(func(svc *service.Service) error {
			auth, err := svc.Authorization.Authorize(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "authorization %d %s -> %s\n", auth.ID, auth.UserAddress, auth.AdminAddress)
			return nil
		})
	},
}

func init() {
	authorizeCmd.Flags().StringVar(&authorizeExpires, "expires", "", "expiry as RFC 3339 time or duration from now (e.g. 720h)")
	authorizeCmd.Flags().StringVar(&authorizeLimit, "limit", "", "maximum amount per request")
	authorizeCmd.Flags().StringVar(&authorizeNotes, "notes", "", "free text notes")
}

func authorizeOptions(now time.Time) (models.AuthorizeOptions, error) {
	var opts models.AuthorizeOptions
	if authorizeExpires != "" {
		expires, err := parseExpiry(authorizeExpires, now)
		if err != nil {
			return opts, err
		}
		opts.ExpirationDate = &expires
	}
	if authorizeLimit != "" {
		limit, err := wallet.ParseAmount(authorizeLimit)
		if err != nil {
			return opts, errors.Wrap(err, "--limit")
		}
		opts.AmountLimit = decimal.NewNullDecimal(limit)
	}
	if authorizeNotes != "" {
		opts.Notes = &authorizeNotes
	}
	return opts, nil
}

func parseExpiry(value string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(d), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.Errorf("--expires: %q is neither a duration nor an RFC 3339 time", value)
	}
	return t, nil
}

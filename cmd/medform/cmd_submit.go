package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"medbot-backend/pkg/intake"

	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the medical intake form",
	Long: `Submit age, gender and optional history to the backend.

The signed-in account's email is attached automatically.`,
	RunE: runSubmit,
}

var statusCmd = &cobra.Command{
	Use:   "status [email]",
	Short: "Check whether medical details are on file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	submitCmd.Flags().String("age", "", "Age in whole years, 1-120 (required)")
	submitCmd.Flags().String("gender", "", "Male, Female or Other (required)")
	submitCmd.Flags().String("conditions", "", "Existing medical conditions")
	submitCmd.Flags().String("allergies", "", "Known allergies")
	submitCmd.Flags().String("medications", "", "Current medications")
}

var submitFlags = map[string]string{
	"age":         intake.FieldAge,
	"gender":      intake.FieldGender,
	"conditions":  intake.FieldMedicalConditions,
	"allergies":   intake.FieldAllergies,
	"medications": intake.FieldMedications,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	store, err := sessionStore(cmd)
	if err != nil {
		return err
	}
	session, err := store.Load()
	if err != nil {
		return err
	}
	if session.Email == "" {
		return errors.New("not signed in, run 'medform login' first")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	saver := intake.NewHTTPSaver(serverURL(cmd, session), session.AccessToken, timeout)

	form := intake.NewForm(store, saver, func() {
		fmt.Fprintln(cmd.OutOrStdout(), "Medical details saved.")
	})
	for flag, field := range submitFlags {
		value, _ := cmd.Flags().GetString(flag)
		if err := form.Set(field, value); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := form.Submit(ctx); err != nil {
		if msg := form.State().Error; msg != "" {
			return errors.New(msg)
		}
		return err
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := sessionStore(cmd)
	if err != nil {
		return err
	}
	session, err := store.Load()
	if err != nil {
		return err
	}

	email := session.Email
	if len(args) == 1 {
		email = args[0]
	}
	if email == "" {
		return errors.New("no email given and not signed in")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	exists, err := intake.NewClient(serverURL(cmd, session), timeout).Status(cmd.Context(), email)
	if err != nil {
		return err
	}

	if exists {
		fmt.Fprintf(cmd.OutOrStdout(), "Medical details on file for %s\n", email)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No medical details on file for %s\n", email)
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/investsim/id"
	"github.com/rustyeddy/investsim/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage investor profiles",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a profile with the configured opening balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		first, _ := cmd.Flags().GetString("first-name")
		last, _ := cmd.Flags().GetString("last-name")
		pin, _ := cmd.Flags().GetString("pin")
		biometry, _ := cmd.Flags().GetBool("biometry")

		if first == "" {
			return fmt.Errorf("--first-name is required")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		p := profile.Profile{
			ID:          id.New(),
			FirstName:   first,
			LastName:    last,
			Biometry:    biometry,
			FiatBalance: cfg.Account.OpeningBalance,
		}
		if pin != "" {
			p.PINHash = profile.HashPassword(p, pin)
		}

		if err := s.CreateProfile(cmd.Context(), p); err != nil {
			return err
		}

		fmt.Printf("created profile %s (%s, %.2f %s)\n",
			p.ID, p.FullName(), p.FiatBalance, cfg.Account.Currency)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		profiles, err := s.Profiles(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBALANCE\tBIOMETRY\tTRADING PW")
		for _, p := range profiles {
			tradingPW := "no"
			if p.TradingPasswordHash != "" {
				tradingPW = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%v\t%s\n",
				p.ID, p.FullName(), p.FiatBalance, p.Biometry, tradingPW)
		}
		return w.Flush()
	},
}

var profileTradingPasswordCmd = &cobra.Command{
	Use:   "set-trading-password",
	Short: "Configure the password that gates trade confirmation",
	RunE: func(cmd *cobra.Command, args []string) error {
		profileID, _ := cmd.Flags().GetString("profile")
		password, _ := cmd.Flags().GetString("password")

		if profileID == "" || password == "" {
			return fmt.Errorf("--profile and --password are required")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.Profile(cmd.Context(), profileID)
		if err != nil {
			return err
		}

		p.TradingPasswordHash = profile.HashPassword(p, password)
		if err := s.UpdateProfile(cmd.Context(), p); err != nil {
			return err
		}

		fmt.Println("trading password set")
		return nil
	},
}

func init() {
	profileCreateCmd.Flags().String("first-name", "", "first name")
	profileCreateCmd.Flags().String("last-name", "", "last name")
	profileCreateCmd.Flags().String("pin", "", "sign-in PIN")
	profileCreateCmd.Flags().Bool("biometry", false, "enable biometric sign-in")

	profileTradingPasswordCmd.Flags().String("profile", "", "profile id")
	profileTradingPasswordCmd.Flags().String("password", "", "trading password")

	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileTradingPasswordCmd)
}

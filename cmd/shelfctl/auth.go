package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func init() {
	var phone string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a phone number and verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if phone == "" {
				return fmt.Errorf("--phone required")
			}
			c := newClient(apiFlag)

			resp, err := c.R().
				SetBody(map[string]string{"phone_number": phone}).
				Post("/send_code_request")
			if err != nil {
				return err
			}
			if err := checkStatus(resp); err != nil {
				return err
			}
			persistSession(resp)

			fmt.Fprint(os.Stdout, "Verification code: ")
			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return err
			}

			resp, err = c.R().
				SetBody(map[string]string{"code": strings.TrimSpace(code)}).
				Post("/sign_in")
			if err != nil {
				return err
			}
			if err := checkStatus(resp); err != nil {
				return err
			}
			persistSession(resp)

			fmt.Fprintln(os.Stdout, "Signed in.")
			return nil
		},
	}
	loginCmd.Flags().StringVarP(&phone, "phone", "p", "", "Phone number in international format (required)")
	_ = loginCmd.MarkFlagRequired("phone")
	rootCmd.AddCommand(loginCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient(apiFlag).R().Get("/is_authenticated")
			if err != nil {
				return err
			}
			if err := checkStatus(resp); err != nil {
				return err
			}
			persistSession(resp)
			fmt.Fprintln(os.Stdout, strings.TrimSpace(string(resp.Body())))
			return nil
		},
	}
	rootCmd.AddCommand(statusCmd)

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient(apiFlag).R().Post("/logout")
			if err != nil {
				return err
			}
			persistSession(resp)
			fmt.Fprintln(os.Stdout, "Logged out.")
			return nil
		},
	}
	rootCmd.AddCommand(logoutCmd)
}

func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() < 400 {
		return nil
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
}

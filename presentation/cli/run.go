package cli

import (
	"encoding/json"
	"errors"

	"formpilot/domain/entities"

	"github.com/spf13/cobra"
)

// ErrRunFailed is returned when a run completed with an unsuccessful Result.
var ErrRunFailed = errors.New("automation run failed")

type runFlags struct {
	school   string
	template string
	user     string
	email    string
	username string
	password string
	extra    map[string]string
}

func newRunCommand(a *app) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one automation and print its result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := a.engine(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer cleanup()

			req := entities.RunRequest{
				SchoolID:   f.school,
				TemplateID: f.template,
				UserID:     f.user,
				Login:      loginOverride(cmd, f),
			}

			res, err := engine.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
			if !res.Success {
				return ErrRunFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.school, "school", "", "target school id (selects the script)")
	cmd.Flags().StringVar(&f.template, "template", "", "stored template id")
	cmd.Flags().StringVar(&f.user, "user", "", "user id whose answers and account are used")
	cmd.Flags().StringVar(&f.email, "email", "", "override the stored login email")
	cmd.Flags().StringVar(&f.username, "username", "", "override the stored login username")
	cmd.Flags().StringVar(&f.password, "password", "", "login password for this run")
	cmd.Flags().StringToStringVar(&f.extra, "extra", nil, "extra login fields as key=value")
	_ = cmd.MarkFlagRequired("school")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// loginOverride builds the per-run override from the flags that were set.
// A flag given as "" still overrides; an absent flag does not.
func loginOverride(cmd *cobra.Command, f runFlags) *entities.LoginOverride {
	var o entities.LoginOverride
	set := false

	if cmd.Flags().Changed("email") {
		o.Email = &f.email
		set = true
	}
	if cmd.Flags().Changed("username") {
		o.Username = &f.username
		set = true
	}
	if cmd.Flags().Changed("password") {
		o.Password = &f.password
		set = true
	}
	if len(f.extra) > 0 {
		o.Extra = f.extra
		set = true
	}

	if !set {
		return nil
	}
	return &o
}

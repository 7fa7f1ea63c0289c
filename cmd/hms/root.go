package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wolfman30/hospital-booking-client/internal/app/bootstrap"
	appconfig "github.com/wolfman30/hospital-booking-client/internal/config"
	"github.com/wolfman30/hospital-booking-client/internal/navigation"
	"github.com/wolfman30/hospital-booking-client/internal/notify"
	"github.com/wolfman30/hospital-booking-client/pkg/logging"
)

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	envFile     string
	apiURL      string
	authURL     string
	logLevel    string
	metricsFile string

	logger  *logging.Logger
	runtime *bootstrap.Runtime
}

// execute runs one invocation and releases the runtime afterwards, whether the
// command succeeded or not.
func execute(in io.Reader, out, errOut io.Writer, args []string) error {
	rootCmd, c := newRootCmd(in, out, errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if ferr := c.finish(); ferr != nil && err == nil {
		fmt.Fprintln(errOut, "Error:", ferr)
		err = ferr
	}
	return err
}

func newRootCmd(in io.Reader, out, errOut io.Writer) (*cobra.Command, *cli) {
	c := &cli{in: bufio.NewReader(in), out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:          "hms",
		Short:        "Hospital appointment booking client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.envFile, "env-file", ".env", "Optional .env file to load")
	flags.StringVar(&c.apiURL, "api-url", "", "Booking API base URL (overrides API_BASE_URL)")
	flags.StringVar(&c.authURL, "auth-url", "", "Auth API base URL (overrides AUTH_BASE_URL)")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "Write gateway call metrics in prometheus text format to this file on exit")

	rootCmd.AddCommand(loginCmd(c))
	rootCmd.AddCommand(logoutCmd(c))
	rootCmd.AddCommand(doctorsCmd(c))
	rootCmd.AddCommand(bookCmd(c))
	rootCmd.AddCommand(appointmentsCmd(c))
	return rootCmd, c
}

// finish writes the metrics file, if asked for, and closes the runtime.
func (c *cli) finish() error {
	if c.runtime == nil {
		return nil
	}
	defer c.runtime.Close()
	if c.metricsFile == "" {
		return nil
	}
	return c.runtime.WriteMetrics(c.metricsFile)
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := appconfig.LoadWithDotEnv(c.envFile)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.APIBaseURL = strings.TrimRight(c.apiURL, "/")
	}
	if c.authURL != "" {
		cfg.AuthBaseURL = strings.TrimRight(c.authURL, "/")
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.logger = logging.NewWithWriter(cfg.LogLevel, c.errOut)
	rt, err := bootstrap.Build(cmd.Context(), cfg, navigation.Func(c.navigate), notify.NewWriterNotifier(c.out), nil, c.logger)
	if err != nil {
		return err
	}
	c.runtime = rt
	return nil
}

// navigate turns view intents into hints, since a one-shot command cannot
// switch views itself.
func (c *cli) navigate(intent navigation.Intent) {
	switch intent {
	case navigation.ToLogin:
		fmt.Fprintln(c.errOut, "Not logged in. Run: hms login --email <email>")
	case navigation.ToAppointments:
		fmt.Fprintln(c.out, "See your bookings with: hms appointments list")
	}
}

// confirm asks prompt on the terminal and accepts y or yes.
func (c *cli) confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// readLine prompts for a value when it was not given as a flag. Input is
// read from stdin as typed, with echo.
func (c *cli) readLine(prompt string) string {
	fmt.Fprint(c.out, prompt)
	line, _ := c.in.ReadString('\n')
	return strings.TrimSpace(line)
}

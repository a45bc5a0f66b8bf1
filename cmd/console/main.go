// Command console is a terminal client for the vaccination API. It exercises
// the console SDK: login per portal, OTP verification, session inspection,
// slot listing and logout, with the session persisted to a local file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/petvax/vaccination-system/internal/console"
	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/pkg/logger"
)

func main() {
	var (
		baseURL = flag.String("api", envOr("PETVAX_API", "http://localhost:8080"), "API base URL")
		session = flag.String("session", defaultSessionPath(), "session file path")
	)
	flag.Parse()

	log := logger.Init(logger.Options{Level: "info", Service: "petvax-console", Pretty: true})

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	store := console.NewFileStore(*session)
	client := console.NewClient(*baseURL, store, stderrNotifier{}, printNavigator{})
	ctx := context.Background()

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "login":
		err = runLogin(ctx, client)
	case "verify-otp":
		err = runVerifyOTP(ctx, client)
	case "whoami":
		err = runWhoAmI(store)
	case "slots":
		err = runSlots(ctx, client)
	case "logout":
		err = client.Logout(ctx)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, client *console.Client) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	portal := fs.String("portal", "customer", "portal: admin, staff, vet or customer")
	_ = fs.Parse(flag.Args()[1:])

	role, ok := domain.ParseRole(*portal)
	if !ok {
		return fmt.Errorf("unknown portal %q", *portal)
	}

	result, err := client.Login(ctx, *email, *password, role)
	if err != nil {
		return err
	}
	if result.OTPRequired {
		fmt.Println("verification code sent; run: console verify-otp -email", *email, "-code <code>")
		return nil
	}
	fmt.Printf("logged in as %s (%s)\n", result.Session.User.Email, result.Session.User.Role)
	return nil
}

func runVerifyOTP(ctx context.Context, client *console.Client) error {
	fs := flag.NewFlagSet("verify-otp", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	code := fs.String("code", "", "6-digit verification code")
	_ = fs.Parse(flag.Args()[1:])

	result, err := client.VerifyOTP(ctx, *email, *code)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", result.Session.User.Email, result.Session.User.Role)
	return nil
}

func runWhoAmI(store console.Store) error {
	session, ok := store.Session()
	if !ok {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s (%s), verified=%v\n", session.User.Email, session.User.Role, session.User.IsVerified)
	fmt.Println("dashboard:", domain.DashboardPath(session.User.Role))
	return nil
}

func runSlots(ctx context.Context, client *console.Client) error {
	slots, err := client.Slots(ctx)
	if err != nil {
		return err
	}
	for _, s := range slots {
		fmt.Printf("%2d  %s\n", s.Slot, s.Window)
	}
	return nil
}

// stderrNotifier prints pipeline notifications where they do not mix with
// command output.
type stderrNotifier struct{}

func (stderrNotifier) Notify(message string) {
	fmt.Fprintln(os.Stderr, "!", message)
}

// printNavigator reports where the web console would navigate; a terminal
// has no page to move.
type printNavigator struct{}

func (printNavigator) NavigateTo(path string) {
	fmt.Fprintln(os.Stderr, "-> navigate to", path)
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".petvax-session.json"
	}
	return filepath.Join(home, ".petvax-session.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: console [flags] <command>

commands:
  login       -email -password -portal   authenticate against a portal
  verify-otp  -email -code               complete the OTP challenge
  whoami                                 show the stored session
  slots                                  list bookable appointment windows
  logout                                 revoke the session`)
	flag.PrintDefaults()
}

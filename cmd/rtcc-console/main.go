// Command rtcc-console is the operator client for the RTCC platform.
//
// Usage:
//
//	rtcc-console login -u jdoe [-p secret]
//	rtcc-console status
//	rtcc-console watch [-priority critical,high]
//	rtcc-console logout
//	rtcc-console version
//
// Configuration is read from CONFIG_PATH (default ./rtcc.yaml) and the
// environment. The password falls back to RTCC_PASSWORD when -p is omitted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/app"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/config"
	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

const usage = "Usage: rtcc-console <login|logout|status|watch|version> [flags]"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "rtcc-console: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	if cmd == "version" {
		fmt.Println(app.BuildVersion())
		return nil
	}

	// a is assigned before Watch can deliver the first event.
	var a *app.App
	var opts []app.Option
	if cmd == "watch" {
		show, err := parsePriorities(args)
		if err != nil {
			return err
		}
		opts = append(opts, app.WithEventNotify(func(e domain.Event) {
			printEvent(e, show, a.Events.UnreadCount())
		}))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err = app.New(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "login":
		return login(ctx, a, args)
	case "logout":
		a.Session.Logout(ctx)
		fmt.Println("Signed out.")
		return nil
	case "status":
		return status(ctx, a)
	case "watch":
		return watch(ctx, a)
	}
	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

func login(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password (default $RTCC_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("RTCC_PASSWORD")
	}

	if err := a.Login(ctx, *username, *password); err != nil {
		if msg := a.Session.Snapshot().Error; msg != "" {
			return errors.New(msg)
		}
		return err
	}

	user, _ := a.Session.User()
	fmt.Printf("Signed in as %s (%s).\n", user.Username, user.Role)
	return nil
}

func status(ctx context.Context, a *app.App) error {
	a.Session.CheckSession(ctx)

	user, ok := a.Session.User()
	if !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("Signed in as %s (%s)", user.Username, user.Role)
	if user.Department != "" {
		fmt.Printf(", %s", user.Department)
	}
	fmt.Println(".")
	return nil
}

func parsePriorities(args []string) ([]domain.EventPriority, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	priorities := fs.String("priority", "", "comma separated priorities to show")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var show []domain.EventPriority
	for _, p := range strings.Split(*priorities, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		prio := domain.EventPriority(p)
		if !prio.IsValid() {
			return nil, fmt.Errorf("unknown priority %q", p)
		}
		show = append(show, prio)
	}
	return show, nil
}

func printEvent(e domain.Event, show []domain.EventPriority, unread int) {
	if len(show) > 0 && !slices.Contains(show, e.Priority) {
		return
	}
	fmt.Printf("%s  %-8s  %-16s  %s  (%d unread)\n",
		e.Timestamp.Local().Format(time.TimeOnly), e.Priority, e.EventType, e.Title, unread)
}

func watch(ctx context.Context, a *app.App) error {
	err := a.Watch(ctx)
	switch {
	case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrNoSession):
		return errors.New("not signed in, run: rtcc-console login -u <username>")
	case errors.Is(err, context.Canceled):
		return nil
	}
	return err
}

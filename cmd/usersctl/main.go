package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"userdesk/internal/client"
	"userdesk/internal/config"
	"userdesk/internal/entity"
	"userdesk/internal/entity/converter"
	"userdesk/internal/userstore"
	"userdesk/internal/version"

	"github.com/sirupsen/logrus"
)

var (
	buildVersion = ""
	commit       = ""
	treeState    = ""
	date         = ""
	builtBy      = ""
)

const usage = `Usage: usersctl [-seed file] [-debug] <command> [flags]

Commands:
  list     [-department a.b] [-search s] [-page n] [-limit n]
  get      -id n
  create   -name s -username s [-department s] [-position s] [-phone s] [-business-date d] [-admin]
  update   -id n [-name s] [-username s] [...same as create; unset fields keep their value]
  delete   -id n
  version
`

var errUsage = errors.New("invalid usage")

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	global := flag.NewFlagSet("usersctl", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	seedFile := global.String("seed", "", "JSON file loaded into the local cache before the command runs")
	debug := global.Bool("debug", false, "enable debug logging")
	if err := global.Parse(args); err != nil {
		return errUsage
	}

	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	rest := global.Args()
	if len(rest) == 0 {
		return errUsage
	}
	command, cmdArgs := rest[0], rest[1:]

	if command == "version" {
		info := version.Build(buildVersion, commit, date, builtBy, treeState)
		_, err := fmt.Fprintln(out, info.String())
		return err
	}

	remote, err := client.NewHTTPRemote(cfg.UsersAPIBaseURL, cfg.UsersAPITimeout)
	if err != nil {
		return err
	}
	cache := client.NewCache(remote)
	if *seedFile != "" {
		seed, err := userstore.LoadSeedFile(*seedFile)
		if err != nil {
			return err
		}
		cache.Initialize(seed)
	}
	listing := client.NewListing(cache)

	switch command {
	case "list":
		return runList(ctx, listing, cmdArgs, out)
	case "get":
		return runGet(ctx, cache, cmdArgs, out)
	case "create":
		return runCreate(ctx, listing, cmdArgs, out)
	case "update":
		return runUpdate(ctx, cache, listing, cmdArgs, out)
	case "delete":
		return runDelete(ctx, listing, cmdArgs, out)
	default:
		return errUsage
	}
}

func runList(ctx context.Context, listing *client.Listing, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	departments := fs.String("department", "", "dot-separated departments")
	search := fs.String("search", "", "search name and username")
	page := fs.Int("page", client.DefaultPage, "page number")
	limit := fs.Int("limit", client.DefaultLimit, "rows per page")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	depts := client.ParseDepartments(*departments)
	listing.SetFilters(client.FilterUpdate{
		Departments: &depts,
		Search:      search,
		Limit:       limit,
		Page:        page,
	})
	view := listing.Fetch(ctx)

	printUsers(out, view.Users)
	_, err := fmt.Fprintf(out, "page %d, %d of %d users\n", listing.Filters().Page, len(view.Users), view.TotalItems)
	return err
}

func runGet(ctx context.Context, cache *client.Cache, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.Int64("id", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := cache.Refresh(ctx); err != nil {
		logrus.WithError(err).Debug("users_refresh_failed")
	}
	user, err := cache.GetUserByID(*id)
	if err != nil {
		return err
	}
	printUsers(out, []entity.User{*user})
	return nil
}

func runCreate(ctx context.Context, listing *client.Listing, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	input := bindUserFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	res, err := listing.Add(ctx, *input)
	if err != nil {
		return err
	}
	return printResult(out, res)
}

// runUpdate starts from the stored record; only the flags given on the
// command line replace its fields.
func runUpdate(ctx context.Context, cache *client.Cache, listing *client.Listing, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.Int64("id", 0, "user id")
	bindUserFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := cache.Refresh(ctx); err != nil {
		logrus.WithError(err).Debug("users_refresh_failed")
	}
	current, err := cache.GetUserByID(*id)
	if err != nil {
		return err
	}

	merged := converter.UserToInput(current)
	overlay := flag.NewFlagSet("update", flag.ContinueOnError)
	overlay.SetOutput(io.Discard)
	overlay.Int64("id", 0, "user id")
	bindUserFlagsTo(overlay, &merged)

	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if err := overlay.Set(f.Name, f.Value.String()); err != nil && setErr == nil {
			setErr = err
		}
	})
	if setErr != nil {
		return setErr
	}

	res, err := listing.Update(ctx, *id, merged)
	if err != nil {
		return err
	}
	return printResult(out, res)
}

func runDelete(ctx context.Context, listing *client.Listing, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.Int64("id", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	res, err := listing.Delete(ctx, *id)
	if err != nil {
		return err
	}
	return printResult(out, res)
}

func bindUserFlags(fs *flag.FlagSet) *entity.UserInput {
	input := &entity.UserInput{}
	bindUserFlagsTo(fs, input)
	return input
}

// bindUserFlagsTo uses the current field values as flag defaults.
func bindUserFlagsTo(fs *flag.FlagSet, input *entity.UserInput) {
	fs.StringVar(&input.Name, "name", input.Name, "full name")
	fs.StringVar(&input.Username, "username", input.Username, "login name")
	fs.StringVar(&input.Department, "department", input.Department, "department")
	fs.StringVar(&input.Position, "position", input.Position, "position")
	fs.StringVar(&input.PhoneNumber, "phone", input.PhoneNumber, "phone number")
	fs.StringVar(&input.BusinessDate, "business-date", input.BusinessDate, "ISO date")
	fs.BoolVar(&input.IsAdmin, "admin", input.IsAdmin, "administrator flag")
}

func printUsers(out io.Writer, users []entity.User) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tDEPARTMENT\tPOSITION\tPHONE\tBUSINESS DATE\tADMIN")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			u.ID, u.Name, u.Username, u.Department, u.Position, u.PhoneNumber, u.BusinessDate, u.IsAdmin)
	}
	tw.Flush()
}

func printResult(out io.Writer, res *client.MutationResult) error {
	line := fmt.Sprintf("[%s] %s", res.Outcome, res.Message)
	if res.RemoteErr != nil {
		line += fmt.Sprintf(" (remote: %v)", res.RemoteErr)
	}
	if _, err := fmt.Fprintln(out, strings.TrimSpace(line)); err != nil {
		return err
	}
	if res.User != nil {
		printUsers(out, []entity.User{*res.User})
	}
	return nil
}

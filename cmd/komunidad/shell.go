package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/komunidad/bulletin-board/internal/app"
	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/guard"
	"github.com/komunidad/bulletin-board/internal/core/search"
	"github.com/komunidad/bulletin-board/internal/core/session"
)

const prompt = "komunidad> "

// shell reads one command per line and runs it against the screens.
type shell struct {
	in      io.Reader
	out     io.Writer
	deps    app.Deps
	store   *session.Store
	nav     *guard.Navigator
	timeout time.Duration

	quit bool
}

func (s *shell) run(ctx context.Context) error {
	if err := s.launch(ctx); err != nil {
		return err
	}

	sc := bufio.NewScanner(s.in)
	for !s.quit {
		fmt.Fprint(s.out, prompt)
		if !sc.Scan() {
			break
		}
		args, err := shlex.Split(sc.Text())
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		cmd := s.commands()
		cmd.SetArgs(args)
		if err := cmd.ExecuteContext(ctx); err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	fmt.Fprintln(s.out)
	return sc.Err()
}

// launch waits for the first session resolution and opens the screen it
// implies.
func (s *shell) launch(ctx context.Context) error {
	wctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	st, err := s.store.WaitResolved(wctx)
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}
	target := guard.RouteLogin
	if st.Profile != nil {
		target = guard.HomeFor(st.Profile.Role)
	}
	s.show(ctx, target, nil)
	return nil
}

// commands builds a fresh command tree, so flag values never leak from one
// line into the next.
func (s *shell) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "komunidad",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(s.out)
	root.SetErr(s.out)
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		&cobra.Command{
			Use:   "login EMAIL PASSWORD",
			Short: "Sign in",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				screen := app.NewLogin(s.deps)
				screen.Email, screen.Password = args[0], args[1]
				if route := screen.Submit(cmd.Context()); route != "" {
					s.afterSessionChange(cmd.Context(), true, route)
				}
				return nil
			},
		},
		s.registerCmd(),
		&cobra.Command{
			Use:   "areas",
			Short: "List barangays",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				areas, err := s.deps.Areas.List(cmd.Context())
				if err != nil {
					return err
				}
				printAreas(s.out, areas)
				return nil
			},
		},
		s.homeCmd(),
		s.searchCmd(),
		&cobra.Command{
			Use:   "show ID",
			Short: "Show one announcement",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s.show(cmd.Context(), guard.DetailPath(args[0]), args)
				return nil
			},
		},
		&cobra.Command{
			Use:   "dashboard",
			Short: "Show the announcements you authored",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s.show(cmd.Context(), guard.RouteDashboard, nil)
				return nil
			},
		},
		s.postCmd(),
		s.editCmd(),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete one of your announcements",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if !s.enter(ctx, guard.RouteDashboard) {
					return nil
				}
				screen := app.NewDashboard(s.deps)
				screen.Load(ctx, s.store.Profile())
				screen.Delete(ctx, args[0])
				s.printDashboard(screen)
				return nil
			},
		},
		&cobra.Command{
			Use:   "profile",
			Short: "Show your profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s.show(cmd.Context(), guard.RouteProfile, nil)
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Sign out",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				screen := app.NewProfile(s.deps)
				route := screen.Logout(cmd.Context())
				s.afterSessionChange(cmd.Context(), false, route)
				return nil
			},
		},
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "Leave the client",
			Args:    cobra.NoArgs,
			Run:     func(*cobra.Command, []string) { s.quit = true },
		},
	)
	return root
}

func (s *shell) registerCmd() *cobra.Command {
	var official bool
	cmd := &cobra.Command{
		Use:   "register EMAIL PASSWORD CONFIRM AREA_ID",
		Short: "Create an account (see 'areas' for ids)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			screen := app.NewRegister(s.deps)
			screen.Load(ctx)
			screen.Email, screen.Password, screen.ConfirmPassword, screen.AreaID = args[0], args[1], args[2], args[3]
			if official {
				screen.Role = domain.RoleOfficial
			}
			if route := screen.Submit(ctx); route != "" {
				s.afterSessionChange(ctx, true, route)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&official, "official", false, "register as a barangay official")
	return cmd
}

func (s *shell) homeCmd() *cobra.Command {
	var category, query string
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Show your barangay's feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !s.enter(ctx, guard.RouteHome) {
				return nil
			}
			screen := app.NewHome(s.deps)
			if route := screen.Load(ctx, s.store.Profile()); route != "" {
				s.show(ctx, route, nil)
				return nil
			}
			screen.SelectCategory(category)
			screen.SetQuery(query)
			s.printHome(screen)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", search.AllCategories, "category chip: "+strings.Join(app.HomeCategories, ", "))
	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text filter")
	return cmd
}

func (s *shell) searchCmd() *cobra.Command {
	cfg := search.DefaultConfig()
	var dateRange, sortOrder string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search announcements from every barangay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !s.enter(ctx, guard.RouteSearch) {
				return nil
			}
			screen := app.NewSearch(s.deps)
			screen.Load(ctx)
			screen.SelectCategory(cfg.Category)
			screen.SelectArea(cfg.AreaID)
			screen.SelectDateRange(search.DateRange(dateRange))
			screen.SelectSort(search.SortOrder(sortOrder))
			screen.SetQuery(cfg.Query)
			s.printSearch(screen)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cfg.Category, "category", "c", cfg.Category, "one of: "+strings.Join(search.SearchCategories, ", "))
	f.StringVarP(&cfg.AreaID, "area", "a", cfg.AreaID, "barangay id, or all")
	f.StringVarP(&dateRange, "range", "r", string(cfg.DateRange), "all, today, week, month or 3months")
	f.StringVarP(&sortOrder, "sort", "s", string(cfg.Sort), "newest, oldest or relevant")
	f.StringVarP(&cfg.Query, "query", "q", "", "free-text filter")
	return cmd
}

func (s *shell) postCmd() *cobra.Command {
	var title, description, category string
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish an announcement for your barangay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !s.enter(ctx, guard.RouteAnnouncement) {
				return nil
			}
			form := app.NewForm(s.deps)
			form.Open(ctx, "")
			form.Title, form.Description = title, description
			if category != "" {
				form.Category = category
			}
			if route := form.Submit(ctx, s.store.Profile()); route != "" {
				s.show(ctx, route, nil)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "body text")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category (default General)")
	return cmd
}

func (s *shell) editCmd() *cobra.Command {
	var title, description, category string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit one of your announcements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !s.enter(ctx, guard.RouteAnnouncement) {
				return nil
			}
			form := app.NewForm(s.deps)
			form.Open(ctx, args[0])
			if form.Title == "" {
				return nil
			}
			if cmd.Flags().Changed("title") {
				form.Title = title
			}
			if cmd.Flags().Changed("description") {
				form.Description = description
			}
			if cmd.Flags().Changed("category") {
				form.Category = category
			}
			if route := form.Submit(ctx, s.store.Profile()); route != "" {
				s.show(ctx, route, nil)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new body text")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category")
	return cmd
}

// enter runs the navigation guards for path. On a redirect it shows the
// screen navigation ended on and reports false.
func (s *shell) enter(ctx context.Context, path string) bool {
	wctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reached, err := s.nav.Navigate(wctx, path)
	if err != nil {
		fmt.Fprintln(s.out, "navigation failed:", err)
		return false
	}
	if reached != path {
		fmt.Fprintf(s.out, "-> %s\n", reached)
		s.render(ctx, reached, nil)
		return false
	}
	return true
}

// show navigates to path and renders the screen it lands on.
func (s *shell) show(ctx context.Context, path string, args []string) {
	if s.enter(ctx, path) {
		s.render(ctx, path, args)
	}
}

func (s *shell) render(ctx context.Context, path string, args []string) {
	profile := s.store.Profile()

	switch {
	case path == guard.RouteLogin:
		fmt.Fprintln(s.out, "Not signed in. Use 'login EMAIL PASSWORD' or 'register ...'; 'help' lists commands.")

	case path == guard.RouteHome:
		screen := app.NewHome(s.deps)
		if route := screen.Load(ctx, profile); route == "" {
			s.printHome(screen)
		}

	case path == guard.RouteSearch:
		screen := app.NewSearch(s.deps)
		screen.Load(ctx)
		s.printSearch(screen)

	case path == guard.RouteProfile:
		screen := app.NewProfile(s.deps)
		screen.Load(ctx, profile)
		fmt.Fprintln(s.out, screen.AccountInfo())

	case path == guard.RouteDashboard:
		screen := app.NewDashboard(s.deps)
		if route := screen.Load(ctx, profile); route == "" {
			s.printDashboard(screen)
		}

	case len(args) == 1 && path == guard.DetailPath(args[0]):
		screen := app.NewDetail(s.deps)
		screen.Load(ctx, args[0])
		s.printDetail(screen)
	}
}

// afterSessionChange waits until the session store has seen the sign-in or
// sign-out that just happened, then opens route.
func (s *shell) afterSessionChange(ctx context.Context, signedIn bool, route string) {
	wctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.store.WaitFor(wctx, func(st session.State) bool {
		return st.SignedIn() == signedIn
	})
	if err != nil {
		fmt.Fprintln(s.out, "session not updated yet:", err)
		return
	}
	s.show(ctx, route, nil)
}

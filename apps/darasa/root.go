package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/darasa/apps/darasa/tui"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/confirm"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/nav"
	"github.com/trezcool/darasa/core/user"
	logsvc "github.com/trezcool/darasa/services/logger"
	notifysvc "github.com/trezcool/darasa/services/notify"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	sqlxdb "github.com/trezcool/darasa/storage/database/sqlx"
	"github.com/trezcool/darasa/storage/session"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "darasa",
		Short: "Course manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()
			return tui.Run(app)
		},
	}
	cmd.AddCommand(adminCmd())
	return cmd
}

// bootstrap wires the whole object graph from configuration.
func bootstrap() (tui.Deps, func(), error) {
	conf := core.NewConfig()

	std := log.New(os.Stderr, conf.AppName+" : ", log.LstdFlags|log.Lshortfile)
	var logger core.Logger
	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewConsoleLogger(std, conf)
	}

	usrRepo, crsRepo, cleanup, err := openRepositories(conf)
	if err != nil {
		return tui.Deps{}, nil, err
	}
	usrSvc := user.NewService(usrRepo)
	crsSvc := course.NewService(crsRepo)

	if conf.Database.Engine == "inmem" {
		seedDemo(usrSvc, crsSvc, logger)
	}

	auth := user.NewAuth(usrSvc, session.NewFileStore(conf), logger)
	workflow := confirm.NewWorkflow()
	notify := notifysvc.NewCenter(conf, logger)

	router := nav.NewRouter(
		nav.Route{Name: nav.RouteLogin, Title: "Log In", Public: true},
		nav.Route{Name: nav.RouteDashboard, Title: "Dashboard"},
		nav.Route{Name: nav.RouteForbidden, Title: "Forbidden"},
		nav.Route{Name: nav.RouteCourses, Title: "Courses"},
		nav.Route{
			Name:          nav.RouteCourseCreate,
			Title:         "New Course",
			RequiredRoles: []string{user.RoleAdmin, user.RoleInstructor},
		},
		nav.Route{
			Name:          nav.RouteCourseEdit,
			Title:         "Edit Course",
			RequiredRoles: []string{user.RoleAdmin, user.RoleInstructor},
			Resolve:       course.Resolver(crsSvc),
			Fallback:      nav.RouteCourses,
		},
		nav.Route{Name: nav.RouteAdminUsers, Title: "Users", RequiredRoles: []string{user.RoleAdmin}},
	)
	navigator := nav.NewNavigator(router, auth, workflow, logger, notify, nav.Location{Route: nav.RouteLogin})

	return tui.Deps{
		Conf:     conf,
		Logger:   logger,
		Auth:     auth,
		Users:    usrSvc,
		Courses:  crsSvc,
		Nav:      navigator,
		Workflow: workflow,
		Notify:   notify,
	}, cleanup, nil
}

func openRepositories(conf *core.Config) (user.Repository, course.Repository, func(), error) {
	switch conf.Database.Engine {
	case "inmem":
		db, err := inmemdb.Open()
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "opening database")
		}
		return inmemdb.NewUserRepository(db), inmemdb.NewCourseRepository(db), func() {}, nil
	case "sqlite":
		db, err := sqlxdb.Open(conf)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "opening database")
		}
		return sqlxdb.NewUserRepository(db), sqlxdb.NewCourseRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}
}

// seedDemo fills the in-memory backend so a fresh run has something to show.
func seedDemo(usrSvc *user.Service, crsSvc *course.Service, logger core.Logger) {
	users := []user.NewUser{
		{Name: "Asha Mkuu", Username: "asha", Email: "asha@darasa.app", Password: "Darasa.Demo#1", Roles: user.AdminRoles},
		{Name: "Neema Juma", Username: "neema", Email: "neema@darasa.app", Password: "Darasa.Demo#1", Roles: user.InstructorRoles},
		{Name: "Baraka Otieno", Username: "baraka", Email: "baraka@darasa.app", Password: "Darasa.Demo#1", Roles: user.StudentRoles},
	}
	for _, nu := range users {
		if _, err := usrSvc.Create(nu); err != nil {
			logger.Warn("seeding user "+nu.Username, err)
		}
	}

	courses := []course.NewCourse{
		{
			Title:       "Kiswahili for Beginners",
			Description: "Greetings, everyday phrases and the basics of Swahili grammar.",
			Category:    "Languages",
			Difficulty:  course.DifficultyBeginner,
			Instructor:  "Neema Juma",
			Duration:    12,
			Price:       29.99,
			IsPublished: true,
		},
		{
			Title:       "Practical Statistics",
			Description: "Descriptive statistics, distributions and hypothesis testing with worked examples.",
			Category:    "Science",
			Difficulty:  course.DifficultyIntermediate,
			Instructor:  "Asha Mkuu",
			Duration:    24,
			Price:       79.99,
			IsPublished: true,
		},
		{
			Title:       "Distributed Systems Design",
			Description: "Consensus, replication and failure handling in large scale systems.",
			Category:    "Engineering",
			Difficulty:  course.DifficultyAdvanced,
			Instructor:  "Neema Juma",
			Duration:    40,
			Price:       149.99,
			IsPublished: false,
		},
	}
	for _, nc := range courses {
		if _, err := crsSvc.Create(nc); err != nil {
			logger.Warn("seeding course "+nc.Title, err)
		}
	}
}

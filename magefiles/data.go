//go:build mage

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

// Data groups targets that operate on a jobdesk data directory.
type Data mg.Namespace

const defaultDataDir = "data"

type dataConfig struct {
	dir   string
	users int
}

func parseDataFlags(name string) dataConfig {
	var cfg dataConfig
	fs := flag.NewFlagSet("data:"+name, flag.ContinueOnError)
	fs.StringVar(&cfg.dir, "dir", defaultDataDir, "data directory")
	fs.IntVar(&cfg.users, "users", 3, "number of demo users (seed only)")
	parseTargetFlags(fs)
	return cfg
}

type demoListing struct {
	Job         string `json:"job"`
	Country     string `json:"country"`
	CompanyName string `json:"companyName"`
}

var demoListings = []demoListing{
	{Job: "Staff Nurse", Country: "Ireland", CompanyName: "HSE"},
	{Job: "Backend Developer", Country: "Germany", CompanyName: "Acme"},
	{Job: "UX Designer", Country: "Portugal", CompanyName: "Studio"},
}

var demoRoles = []string{"Developer", "Nurse", "Designer"}

// Seed builds jobdesk and fills a data directory with demo users, CVs,
// preferences and applications.
//
//	mage data:seed [--dir data] [--users 3]
func (Data) Seed() error {
	mg.Deps(Build)
	cfg := parseDataFlags("seed")

	listings, err := json.Marshal(demoListings)
	if err != nil {
		return err
	}
	if err := jobdeskRun(cfg.dir, "init"); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if _, err := jobdeskWithInput(cfg.dir, "", "explore", "import", "--data", string(listings)); err != nil {
		return fmt.Errorf("explore import: %w", err)
	}

	for i := 1; i <= cfg.users; i++ {
		email := fmt.Sprintf("demo%d@example.com", i)
		out, err := jobdeskWithInput(cfg.dir, "demo-password\n",
			"user", "register", "--email", email, "--name", fmt.Sprintf("Demo User %d", i))
		if err != nil {
			return fmt.Errorf("register %s: %w", email, err)
		}
		var u struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(out, &u); err != nil {
			return fmt.Errorf("parse user: %w", err)
		}

		role := demoRoles[(i-1)%len(demoRoles)]
		listing := demoListings[(i-1)%len(demoListings)]
		steps := [][]string{
			{"prefs", "set", u.ID, "--roles", role, "--countries", listing.Country},
			{"cv", "create", u.ID, role + " CV"},
			{"apply", u.ID, "--job-id", fmt.Sprintf("ex-%d", (i-1)%len(demoListings)+1),
				"--title", listing.Job, "--company", listing.CompanyName, "--country", listing.Country},
		}
		for _, args := range steps {
			if _, err := jobdeskOutput(cfg.dir, args...); err != nil {
				return fmt.Errorf("%s %s: %w", args[0], email, err)
			}
		}
		fmt.Printf("seeded %s (%s)\n", email, u.ID)
	}
	return jobdeskRun(cfg.dir, "stats")
}

// Check validates every table file of a data directory.
//
//	mage data:check [--dir data]
func (Data) Check() error {
	mg.Deps(Build)
	cfg := parseDataFlags("check")
	return jobdeskRun(cfg.dir, "check")
}

// Reset removes a data directory and its uploads.
//
//	mage data:reset [--dir data]
func (Data) Reset() error {
	cfg := parseDataFlags("reset")
	fmt.Printf("removing %s\n", cfg.dir)
	return os.RemoveAll(cfg.dir)
}

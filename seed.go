package main

import (
	"context"
	"fmt"

	"devdesk/common"
	"devdesk/internal/storage"

	"github.com/fatih/color"
	"github.com/guregu/null/v5"
	"github.com/spf13/cobra"
)

// SeedCmd replaces every table's contents with the demo data set.
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Wipe all tables and insert demo tickets, articles and assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openStore(cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Printf("Seeding database (%s)\n", cfg.Database.Driver)

			counts, err := Seed(cmd.Context(), store)
			if err != nil {
				fmt.Printf("%s %v\n", color.New(color.FgRed).Sprint("❌ Seed failed:"), err)
				return err
			}

			fmt.Println(color.New(color.FgGreen).Sprint("✅ Seed complete:"))
			fmt.Printf("  - Tickets:     %s\n", color.New(color.FgCyan).Sprint(counts.Tickets))
			fmt.Printf("  - KB Articles: %s\n", color.New(color.FgCyan).Sprint(counts.Articles))
			fmt.Printf("  - Assets:      %s\n", color.New(color.FgCyan).Sprint(counts.Assets))
			return nil
		},
	}
}

// SeedCounts reports how many rows Seed inserted per collection.
type SeedCounts struct {
	Tickets  int
	Articles int
	Assets   int
}

// Seed clears the three tables and inserts the demo records in order.
func Seed(ctx context.Context, store *storage.Store) (SeedCounts, error) {
	for _, model := range common.Models() {
		if _, err := store.DeleteAll(ctx, model); err != nil {
			return SeedCounts{}, err
		}
	}

	tickets, articles, assets := demoTickets(), demoArticles(), demoAssets()

	for i := range tickets {
		if _, err := store.Insert(ctx, &tickets[i]); err != nil {
			return SeedCounts{}, fmt.Errorf("ticket %q: %w", tickets[i].Title, err)
		}
	}
	for i := range articles {
		if _, err := store.Insert(ctx, &articles[i]); err != nil {
			return SeedCounts{}, fmt.Errorf("article %q: %w", articles[i].Title, err)
		}
	}
	for i := range assets {
		if _, err := store.Insert(ctx, &assets[i]); err != nil {
			return SeedCounts{}, fmt.Errorf("asset %q: %w", assets[i].Name, err)
		}
	}

	return SeedCounts{Tickets: len(tickets), Articles: len(articles), Assets: len(assets)}, nil
}

func demoTickets() []common.Ticket {
	return []common.Ticket{
		{
			Title:       "Cannot connect to office Wi-Fi",
			Description: "Laptop drops connection every few minutes on the office network. Works fine on hotspot.",
			Category:    "Network",
			Status:      common.StatusOpen,
		},
		{
			Title:       "Outlook login loop",
			Description: "Outlook keeps requesting password repeatedly. Credential Manager cleared but issue persists.",
			Category:    "Software",
			Status:      common.StatusInProgress,
		},
		{
			Title:       "New starter account setup",
			Description: "Create Windows + email account for a new employee starting Monday. Needs VPN access + Teams.",
			Category:    "Access",
			Status:      common.StatusOpen,
		},
		{
			Title:       "VPN error 809 when working remotely",
			Description: "User cannot connect to VPN from home. Error code 809. Suspect router or IPsec ports blocked.",
			Category:    "Network",
			Status:      common.StatusInProgress,
		},
		{
			Title:       "Laptop overheating and fan noise",
			Description: "Device runs hot during normal use; fan at full speed. Check dust/build-up and BIOS updates.",
			Category:    "Hardware",
			Status:      common.StatusClosed,
		},
		{
			Title:       "Printer not showing in list",
			Description: "User can’t see the shared printer. Needs re-add of print server and correct permissions.",
			Category:    "Access",
			Status:      common.StatusClosed,
		},
	}
}

func demoArticles() []common.Article {
	return []common.Article{
		{
			Title:   "Fix Wi-Fi disconnecting on Windows 11",
			Content: "Disable power saving on the wireless adapter, update the driver from the manufacturer, then restart.",
			Tags:    null.StringFrom("wifi, windows, network"),
		},
		{
			Title:   "Reset Outlook credential cache",
			Content: "Remove stored credentials in Credential Manager, sign out of Office apps, restart, then sign in again.",
			Tags:    null.StringFrom("outlook, login, office365"),
		},
		{
			Title:   "VPN error 809 resolution",
			Content: "Confirm IPsec services are running and UDP ports 500/4500 are open. Try a different network to isolate router/firewall issues.",
			Tags:    null.StringFrom("vpn, ipsec, remote"),
		},
		{
			Title:   "Basic laptop performance checklist",
			Content: "Check disk space, disable heavy startup apps, run updates, and verify antivirus scans. Consider SSD health check for older devices.",
			Tags:    null.StringFrom("performance, laptop, troubleshooting"),
		},
	}
}

func demoAssets() []common.Asset {
	asset := func(name, tag, serial, assignee, notes string) common.Asset {
		return common.Asset{
			Name:         name,
			AssetTag:     null.StringFrom(tag),
			SerialNumber: null.StringFrom(serial),
			AssignedTo:   null.StringFrom(assignee),
			Notes:        null.StringFrom(notes),
		}
	}

	return []common.Asset{
		asset("Dell Latitude 5420", "IT-LAP-0142", "DL5420-88421", "Sarah Ahmed", "Finance team laptop. Warranty until 2027."),
		asset("MacBook Pro 14", "IT-MAC-0021", "MBP14-99231", "Dev Team Pool", "Shared dev machine for testing Safari + iOS builds."),
		asset("HP ProDesk 600", "IT-DT-0055", "HP600-22194", "Reception", "Front desk workstation. Dual monitor setup."),
		asset("iPhone 13", "IT-MOB-0031", "IP13-77129", "Sales Manager", "Company mobile device. Enrolled in MDM."),
	}
}

// Command seed replaces all campaigns and leads with generated sample data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/internal/config"
	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/pkg"
)

var (
	campaignNames = []string{
		"Spring Launch", "Summer Webinar Series", "Q3 Enterprise Push", "Holiday Promo",
		"Partner Referral", "Product Hunt Follow-up", "Trade Show Leads", "Re-engagement",
	}
	firstNames = []string{"Ann", "Bob", "Chen", "Dana", "Eli", "Fatima", "Gus", "Hana", "Ivan", "Jade"}
	lastNames  = []string{"Lee", "Stone", "Park", "Garcia", "Novak", "Okafor", "Silva", "Kim"}
	companies  = []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli", "Stark Industries", "Wayne Corp"}
	titles     = []string{"CEO", "CTO", "VP Sales", "Head of Growth", "Marketing Manager", "Engineer"}
	statuses   = []domain.CampaignStatus{domain.CampaignDraft, domain.CampaignActive, domain.CampaignPaused, domain.CampaignCompleted}
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	envPath := flag.String("env", ".env", "path to an optional dotenv file")
	leadsPer := flag.Int("leads", 12, "leads generated per campaign")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		log.Fatal("failed to load env file: ", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		log.Fatal("failed to setup logger: ", err)
	}
	defer logger.Close()

	db, err := config.SetupDatabase(&cfg.Database, logger.Logger)
	if err != nil {
		log.Fatal("failed to setup database: ", err)
	}

	ctx := context.Background()
	if _, err := config.Migrate(ctx, db, cfg.Database.Driver, logger.Logger); err != nil {
		log.Fatal("failed to migrate: ", err)
	}

	campaigns, leads := generate(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), time.Now().UTC(), *leadsPer)
	if err := pkg.WithTx(ctx, db, func(tx *gorm.DB) error { return replaceAll(tx, campaigns, leads) }); err != nil {
		log.Fatal("failed to seed: ", err)
	}

	slog.Info("seed complete", slog.Int("campaigns", len(campaigns)), slog.Int("leads", len(leads)))
}

// replaceAll clears leads before campaigns so the foreign key never dangles.
func replaceAll(tx *gorm.DB, campaigns []domain.Campaign, leads []domain.Lead) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Lead{}).Error; err != nil {
		return fmt.Errorf("clear leads: %w", err)
	}
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Campaign{}).Error; err != nil {
		return fmt.Errorf("clear campaigns: %w", err)
	}
	if err := tx.CreateInBatches(campaigns, 100).Error; err != nil {
		return fmt.Errorf("insert campaigns: %w", err)
	}
	if len(leads) > 0 {
		if err := tx.CreateInBatches(leads, 100).Error; err != nil {
			return fmt.Errorf("insert leads: %w", err)
		}
	}
	return nil
}

// generate builds one campaign per name with a response rate between 1 and
// 100, plus leadsPer leads for each of them.
func generate(r *rand.Rand, now time.Time, leadsPer int) ([]domain.Campaign, []domain.Lead) {
	campaigns := make([]domain.Campaign, 0, len(campaignNames))
	leads := make([]domain.Lead, 0, len(campaignNames)*leadsPer)

	for i, name := range campaignNames {
		total := 10 + r.IntN(191)
		successful := max(1, total*(1+r.IntN(100))/100)
		c := domain.Campaign{
			ID:              uuid.New(),
			Name:            name,
			Status:          statuses[r.IntN(len(statuses))],
			TotalLeads:      total,
			SuccessfulLeads: successful,
			ResponseRate:    domain.ResponseRate(successful, total),
			CreatedAt:       now.Add(-time.Duration(len(campaignNames)-i) * 24 * time.Hour),
		}
		campaigns = append(campaigns, c)

		for j := range leadsPer {
			first := firstNames[r.IntN(len(firstNames))]
			last := lastNames[r.IntN(len(lastNames))]
			leads = append(leads, domain.Lead{
				ID:              uuid.New(),
				Name:            first + " " + last,
				Email:           strings.ToLower(fmt.Sprintf("%s.%s.%d.%d@example.com", first, last, i, j)),
				Company:         companies[r.IntN(len(companies))],
				Title:           titles[r.IntN(len(titles))],
				CampaignID:      c.ID,
				Status:          domain.LeadStatuses[r.IntN(len(domain.LeadStatuses))],
				LastContactDate: now.Add(-time.Duration(r.IntN(30*24)) * time.Hour),
			})
		}
	}
	return campaigns, leads
}

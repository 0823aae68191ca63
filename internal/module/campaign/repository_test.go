package campaign

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/testutil"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func seedCampaign(t *testing.T, db *gorm.DB, name string, status domain.CampaignStatus, age time.Duration) *domain.Campaign {
	t.Helper()
	c := &domain.Campaign{
		ID:        uuid.New(),
		Name:      name,
		Status:    status,
		CreatedAt: baseTime.Add(-age),
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedLead(t *testing.T, db *gorm.DB, campaignID uuid.UUID, email string) *domain.Lead {
	t.Helper()
	l := &domain.Lead{
		ID:              uuid.New(),
		Name:            "Lead " + email,
		Email:           email,
		Company:         "Acme",
		Title:           "CTO",
		CampaignID:      campaignID,
		Status:          domain.LeadPending,
		LastContactDate: baseTime,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func names(cs []domain.Campaign) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func TestCampaignRepository_ListNewestFirst(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewCampaignRepository(db)
	seedCampaign(t, db, "oldest", domain.CampaignActive, 3*time.Hour)
	seedCampaign(t, db, "newest", domain.CampaignActive, 1*time.Hour)
	seedCampaign(t, db, "middle", domain.CampaignActive, 2*time.Hour)

	items, total, err := repo.List(context.Background(), domain.PaginationOptions{Page: 1, Limit: 10}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"newest", "middle", "oldest"}, names(items))
}

func TestCampaignRepository_ListWindow(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewCampaignRepository(db)
	for i := 0; i < 7; i++ {
		seedCampaign(t, db, string(rune('a'+i)), domain.CampaignActive, time.Duration(i)*time.Minute)
	}

	items, total, err := repo.List(context.Background(), domain.PaginationOptions{Page: 2, Limit: 3, Offset: 3}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total, "total counts the whole filtered set")
	assert.Equal(t, []string{"d", "e", "f"}, names(items))

	items, _, err = repo.List(context.Background(), domain.PaginationOptions{Page: 4, Limit: 3, Offset: 9}, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestCampaignRepository_ListInactiveAggregate(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewCampaignRepository(db)
	seedCampaign(t, db, "draft", domain.CampaignDraft, 1*time.Minute)
	seedCampaign(t, db, "active", domain.CampaignActive, 2*time.Minute)
	seedCampaign(t, db, "paused", domain.CampaignPaused, 3*time.Minute)
	seedCampaign(t, db, "completed", domain.CampaignCompleted, 4*time.Minute)

	opts := domain.PaginationOptions{Page: 1, Limit: 10}
	items, total, err := repo.List(context.Background(), opts, Predicates(domain.PaginationParams{Status: "inactive"}))
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"draft", "paused", "completed"}, names(items))

	items, total, err = repo.List(context.Background(), opts, Predicates(domain.PaginationParams{Status: "active"}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, []string{"active"}, names(items))
}

func TestCampaignRepository_ListSearch(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewCampaignRepository(db)
	seedCampaign(t, db, "Spring Launch", domain.CampaignActive, 1*time.Minute)
	seedCampaign(t, db, "100% Growth", domain.CampaignActive, 2*time.Minute)
	seedCampaign(t, db, "Winter promo", domain.CampaignActive, 3*time.Minute)

	opts := domain.PaginationOptions{Page: 1, Limit: 10}
	tests := []struct {
		search string
		want   []string
	}{
		{"spring", []string{"Spring Launch"}},
		{"LAUNCH", []string{"Spring Launch"}},
		{"%", []string{"100% Growth"}},
		{"_", []string{}},
		{"n", []string{"Spring Launch", "Winter promo"}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			items, total, err := repo.List(context.Background(), opts, Predicates(domain.PaginationParams{Search: tt.search}))
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), total)
			assert.Equal(t, tt.want, names(items))
		})
	}
}

func TestCampaignRepository_ListSearchUnicodeCase(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewCampaignRepository(db)
	seedCampaign(t, db, "École Outreach", domain.CampaignActive, 1*time.Minute)
	seedCampaign(t, db, "Über Partners", domain.CampaignActive, 2*time.Minute)

	opts := domain.PaginationOptions{Page: 1, Limit: 10}
	tests := []struct {
		search string
		want   []string
	}{
		{"École", []string{"École Outreach"}},
		{"école", []string{"École Outreach"}},
		{"ÉCOLE", []string{"École Outreach"}},
		{"outreach", []string{"École Outreach"}},
		{"über", []string{"Über Partners"}},
		{"ÜBER", []string{"Über Partners"}},
		{"ecole", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			items, total, err := repo.List(context.Background(), opts, Predicates(domain.PaginationParams{Search: tt.search}))
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), total)
			assert.Equal(t, tt.want, names(items))
		})
	}
}

func TestCampaignRepository_Update(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewCampaignRepository(db)
	c := seedCampaign(t, db, "before", domain.CampaignActive, 0)

	total, successful := 50, 10
	updated, err := repo.Update(context.Background(), c.ID, domain.CampaignPatch{
		TotalLeads:      &total,
		SuccessfulLeads: &successful,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.ResponseRate)
	assert.Equal(t, "before", updated.Name)

	stored, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.TotalLeads)
	assert.Equal(t, 20, stored.ResponseRate)
}

func TestCampaignRepository_UpdateRejectsInvalidPatch(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewCampaignRepository(db)
	c := seedCampaign(t, db, "guarded", domain.CampaignActive, 0)

	successful := 5
	_, err := repo.Update(context.Background(), c.ID, domain.CampaignPatch{SuccessfulLeads: &successful})
	assert.True(t, domain.IsValidation(err), "got %v", err)

	stored, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.SuccessfulLeads, "rejected patch must not be stored")
}

func TestCampaignRepository_DeleteCascadesLeads(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewCampaignRepository(db)
	doomed := seedCampaign(t, db, "doomed", domain.CampaignActive, 0)
	kept := seedCampaign(t, db, "kept", domain.CampaignActive, 0)
	seedLead(t, db, doomed.ID, "a@example.com")
	seedLead(t, db, doomed.ID, "b@example.com")
	seedLead(t, db, kept.ID, "c@example.com")

	deleted, err := repo.Delete(context.Background(), doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, "doomed", deleted.Name)

	var remaining int64
	require.NoError(t, db.Model(&domain.Lead{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)

	_, err = repo.GetByID(context.Background(), doomed.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestCampaignRepository_NotFound(t *testing.T) {
	db := testutil.NewSQLite(t)
	repo := NewCampaignRepository(db)
	missing := uuid.New()

	_, err := repo.GetByID(context.Background(), missing)
	assert.True(t, domain.IsNotFound(err))

	name := "x"
	_, err = repo.Update(context.Background(), missing, domain.CampaignPatch{Name: &name})
	assert.True(t, domain.IsNotFound(err))

	_, err = repo.Delete(context.Background(), missing)
	assert.True(t, domain.IsNotFound(err))
}

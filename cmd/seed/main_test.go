package main

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/testutil"
)

func TestGenerate(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	campaigns, leads := generate(rand.New(rand.NewPCG(1, 2)), now, 5)

	require.Len(t, campaigns, len(campaignNames))
	assert.Len(t, leads, len(campaignNames)*5)

	ids := map[string]bool{}
	for _, c := range campaigns {
		ids[c.ID.String()] = true
		assert.True(t, c.Status.Valid())
		assert.GreaterOrEqual(t, c.ResponseRate, 1)
		assert.LessOrEqual(t, c.ResponseRate, 100)
		assert.LessOrEqual(t, c.SuccessfulLeads, c.TotalLeads)
		assert.Equal(t, domain.ResponseRate(c.SuccessfulLeads, c.TotalLeads), c.ResponseRate)
	}

	emails := map[string]bool{}
	for _, l := range leads {
		assert.True(t, ids[l.CampaignID.String()], "lead points at a generated campaign")
		assert.True(t, l.Status.Valid())
		assert.False(t, emails[l.Email], "duplicate email %s", l.Email)
		emails[l.Email] = true
		assert.False(t, l.LastContactDate.After(now))
	}
}

func TestReplaceAll(t *testing.T) {
	db := testutil.NewSQLite(t)
	now := time.Now().UTC()

	first, firstLeads := generate(rand.New(rand.NewPCG(1, 1)), now, 2)
	require.NoError(t, replaceAll(db, first, firstLeads))

	second, secondLeads := generate(rand.New(rand.NewPCG(2, 2)), now, 3)
	require.NoError(t, replaceAll(db, second, secondLeads))

	var campaigns, leads int64
	require.NoError(t, db.Model(&domain.Campaign{}).Count(&campaigns).Error)
	require.NoError(t, db.Model(&domain.Lead{}).Count(&leads).Error)
	assert.EqualValues(t, len(second), campaigns)
	assert.EqualValues(t, len(secondLeads), leads)
}

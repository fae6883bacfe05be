package ghg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esg-dashboard/ghg-backend/internal/database"
)

func newTestRepository(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSQLRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestSQLRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	q := validQuestionnaire()
	env, err := NewEnvelope(q, fixedNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, "alice", KeyQuestionnaire, env))

	got, found, err := repo.Load(ctx, "alice", KeyQuestionnaire)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, EnvelopeVersion, got.Version)
	assert.True(t, fixedNow.Equal(got.Timestamp))

	var decoded Questionnaire
	require.NoError(t, got.Decode(&decoded))
	assert.Equal(t, q, decoded)

	_, found, err = repo.Load(ctx, "bob", KeyQuestionnaire)
	require.NoError(t, err)
	assert.False(t, found, "keys are namespaced per user")
}

func TestSQLRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first, _ := NewEnvelope(StepCalculator, fixedNow)
	second, _ := NewEnvelope(StepResults, fixedNow.Add(time.Minute))
	require.NoError(t, repo.Save(ctx, "alice", KeyCurrentStep, first))
	require.NoError(t, repo.Save(ctx, "alice", KeyCurrentStep, second))

	got, found, err := repo.Load(ctx, "alice", KeyCurrentStep)
	require.NoError(t, err)
	require.True(t, found)

	var step Step
	require.NoError(t, got.Decode(&step))
	assert.Equal(t, StepResults, step)

	keys, err := repo.Keys(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{KeyCurrentStep}, keys)
}

func TestSQLRepository_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, key := range []string{KeyQuestionnaire, KeyEntries, KeyEmissionFactors} {
		env, _ := NewEnvelope(map[string]string{"k": key}, fixedNow)
		require.NoError(t, repo.Save(ctx, "alice", key, env))
	}
	env, _ := NewEnvelope([]EmissionEntry{}, fixedNow)
	require.NoError(t, repo.Save(ctx, "bob", KeyEntries, env))

	require.NoError(t, repo.Remove(ctx, "alice", KeyEntries))
	keys, err := repo.Keys(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{KeyEmissionFactors, KeyQuestionnaire}, keys)

	require.NoError(t, repo.Clear(ctx, "alice"))
	keys, err = repo.Keys(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = repo.Keys(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{KeyEntries}, keys)
}

func TestSQLRepository_FactorTableRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	table, err := AddCustomFactor(DefaultFactorTable(), stationaryGas, "Biogas", 0.2, fixedNow)
	require.NoError(t, err)
	env, err := NewEnvelope(table, fixedNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, "alice", KeyEmissionFactors, env))

	got, _, err := repo.Load(ctx, "alice", KeyEmissionFactors)
	require.NoError(t, err)

	var saved FactorTable
	require.NoError(t, got.Decode(&saved))
	merged := MergeCustomFactors(&saved, DefaultFactorTable())

	f, ok := merged.Lookup(stationaryGas, "Biogas")
	require.True(t, ok)
	assert.True(t, f.Custom)
	assert.Equal(t, 0.2, f.Factor)
}

package datasource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prencipemarco/superquote-web/internal/models"
)

const datasetSample = `MatchDate,Division,HomeTeam,AwayTeam,FTResult,FTHome,FTAway,HTHome,HTAway,HomeElo,AwayElo,OddHome,OddDraw,OddAway
2024-05-01,SA,Inter,Milan,H,2,1,1,0,1745.2,1688.9,1.85,3.60,4.20
2024-04-12,SA,Milan,Inter,D,1,1,0,1,1690.0,1740.0,2.90,3.20,2.45
2024-03-03,SA,Juventus,Roma,A,0,2,,,,,,,
`

func TestParseMatchesCSV(t *testing.T) {
	matches, skipped, err := ParseMatchesCSV(strings.NewReader(datasetSample))

	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, matches, 3)

	first := matches[0]
	assert.Equal(t, "Inter", first.HomeTeam)
	assert.Equal(t, "Milan", first.AwayTeam)
	assert.Equal(t, models.ResultHome, first.FTResult)
	require.NotNil(t, first.FTHomeGoals)
	assert.Equal(t, 2, *first.FTHomeGoals)
	require.NotNil(t, first.HomeElo)
	assert.Equal(t, 1745.2, *first.HomeElo)
	require.NotNil(t, first.OddDraw)
	assert.Equal(t, 3.60, *first.OddDraw)
	assert.Equal(t, "2024-05-01", first.MatchDate.Format("2006-01-02"))

	// gaps become nils, not zeros
	third := matches[2]
	assert.Nil(t, third.HTHomeGoals)
	assert.Nil(t, third.HomeElo)
	assert.Nil(t, third.OddHome)
	require.NotNil(t, third.FTAwayGoals)
	assert.Equal(t, 2, *third.FTAwayGoals)
}

func TestParseMatchesCSVSkipsBrokenRows(t *testing.T) {
	sample := `MatchDate,Division,HomeTeam,AwayTeam,FTResult
not-a-date,SA,Inter,Milan,H
2024-05-01,SA,,Milan,H
2024-05-01,SA,Inter,Milan,W
2024-05-01,SA,Inter,Milan,h
`
	matches, skipped, err := ParseMatchesCSV(strings.NewReader(sample))

	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, matches, 1, "a lowercase result letter is still a result")
	assert.Equal(t, models.ResultHome, matches[0].FTResult)
}

func TestParseMatchesCSVMissingRequiredColumn(t *testing.T) {
	sample := "MatchDate,Division,HomeTeam,FTResult\n2024-05-01,SA,Inter,H\n"

	_, _, err := ParseMatchesCSV(strings.NewReader(sample))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AwayTeam")
}

func TestParseMatchesCSVHeaderIsCaseInsensitive(t *testing.T) {
	sample := "matchdate,hometeam,awayteam,ftresult,fthome,ftaway\n2024-05-01,Inter,Milan,H,3,0\n"

	matches, skipped, err := ParseMatchesCSV(strings.NewReader(sample))

	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].FTHomeGoals)
	assert.Equal(t, 3, *matches[0].FTHomeGoals)
	assert.Equal(t, "", matches[0].Division)
}

func TestParseMatchesCSVGoalCountsAsFloats(t *testing.T) {
	sample := "MatchDate,HomeTeam,AwayTeam,FTResult,FTHome,FTAway\n2024-05-01,Inter,Milan,H,2.0,1.0\n"

	matches, _, err := ParseMatchesCSV(strings.NewReader(sample))

	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].FTHomeGoals)
	assert.Equal(t, 2, *matches[0].FTHomeGoals)
}

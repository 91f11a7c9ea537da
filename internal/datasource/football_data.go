package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prencipemarco/superquote-web/internal/models"
)

// FootballDataClient downloads the Matches.csv dataset and parses it into
// match records.
type FootballDataClient struct {
	httpClient *RateLimitedHTTPClient
	datasetURL string
	logger     *logrus.Logger
}

// NewFootballDataClient creates a new dataset client
func NewFootballDataClient(httpClient *RateLimitedHTTPClient, datasetURL string, logger *logrus.Logger) *FootballDataClient {
	return &FootballDataClient{
		httpClient: httpClient,
		datasetURL: datasetURL,
		logger:     logger,
	}
}

// FetchMatches downloads and parses the whole dataset.
func (c *FootballDataClient) FetchMatches(ctx context.Context) ([]*models.MatchRecord, error) {
	resp, err := c.httpClient.Get(ctx, c.datasetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download dataset: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected dataset status %d", resp.StatusCode)
	}

	matches, skipped, err := ParseMatchesCSV(resp.Body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.WithField("skipped", skipped).Warn("Dataset rows skipped during parse")
	}
	return matches, nil
}

// column indices resolved from the CSV header, -1 when absent
type csvColumns struct {
	date, division, home, away int
	ftResult, ftHome, ftAway   int
	htHome, htAway             int
	homeCorners, awayCorners   int
	homeYellow, awayYellow     int
	homeRed, awayRed           int
	homeElo, awayElo           int
	oddHome, oddDraw, oddAway  int
}

func resolveColumns(header []string) (csvColumns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	at := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		return -1
	}

	cols := csvColumns{
		date:        at("matchdate"),
		division:    at("division"),
		home:        at("hometeam"),
		away:        at("awayteam"),
		ftResult:    at("ftresult"),
		ftHome:      at("fthome"),
		ftAway:      at("ftaway"),
		htHome:      at("hthome"),
		htAway:      at("htaway"),
		homeCorners: at("homecorners"),
		awayCorners: at("awaycorners"),
		homeYellow:  at("homeyellow"),
		awayYellow:  at("awayyellow"),
		homeRed:     at("homered"),
		awayRed:     at("awayred"),
		homeElo:     at("homeelo"),
		awayElo:     at("awayelo"),
		oddHome:     at("oddhome"),
		oddDraw:     at("odddraw"),
		oddAway:     at("oddaway"),
	}

	for name, idx := range map[string]int{
		"MatchDate": cols.date, "HomeTeam": cols.home,
		"AwayTeam": cols.away, "FTResult": cols.ftResult,
	} {
		if idx < 0 {
			return cols, fmt.Errorf("dataset header is missing column %s", name)
		}
	}
	return cols, nil
}

// ParseMatchesCSV parses the dataset. Rows with an unparseable date, a
// missing team, or an unknown result letter are skipped and counted, not
// fatal; the dataset has decades of unevenly curated seasons.
func ParseMatchesCSV(r io.Reader) ([]*models.MatchRecord, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read dataset header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var matches []*models.MatchRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read dataset row: %w", err)
		}

		match, ok := parseRow(row, cols)
		if !ok {
			skipped++
			continue
		}
		matches = append(matches, match)
	}
	return matches, skipped, nil
}

func parseRow(row []string, cols csvColumns) (*models.MatchRecord, bool) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	matchDate, err := time.Parse("2006-01-02", field(cols.date))
	if err != nil {
		return nil, false
	}

	home, away := field(cols.home), field(cols.away)
	if home == "" || away == "" {
		return nil, false
	}

	result := models.FullTimeResult(strings.ToUpper(field(cols.ftResult)))
	switch result {
	case models.ResultHome, models.ResultDraw, models.ResultAway:
	default:
		return nil, false
	}

	return &models.MatchRecord{
		MatchDate:   matchDate,
		Division:    field(cols.division),
		HomeTeam:    home,
		AwayTeam:    away,
		FTResult:    result,
		FTHomeGoals: optionalInt(field(cols.ftHome)),
		FTAwayGoals: optionalInt(field(cols.ftAway)),
		HTHomeGoals: optionalInt(field(cols.htHome)),
		HTAwayGoals: optionalInt(field(cols.htAway)),
		HomeCorners: optionalInt(field(cols.homeCorners)),
		AwayCorners: optionalInt(field(cols.awayCorners)),
		HomeYellow:  optionalInt(field(cols.homeYellow)),
		AwayYellow:  optionalInt(field(cols.awayYellow)),
		HomeRed:     optionalInt(field(cols.homeRed)),
		AwayRed:     optionalInt(field(cols.awayRed)),
		HomeElo:     optionalFloat(field(cols.homeElo)),
		AwayElo:     optionalFloat(field(cols.awayElo)),
		OddHome:     optionalFloat(field(cols.oddHome)),
		OddDraw:     optionalFloat(field(cols.oddDraw)),
		OddAway:     optionalFloat(field(cols.oddAway)),
	}, true
}

func optionalInt(s string) *int {
	if s == "" || s == "NA" {
		return nil
	}
	// goal counts sometimes arrive as "2.0"
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

func optionalFloat(s string) *float64 {
	if s == "" || s == "NA" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

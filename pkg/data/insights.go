package data

import (
	"database/sql"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

const (
	// ScoreSampleSizeDefault caps the score distribution sample.
	ScoreSampleSizeDefault = 1000

	snapshotDDL = `CREATE TABLE txn (
		idx INTEGER NOT NULL,
		risk_level TEXT NOT NULL,
		final_score REAL NOT NULL,
		is_fraud INTEGER NOT NULL
	)`

	insertTxnSQL = `INSERT INTO txn (idx, risk_level, final_score, is_fraud) VALUES (?, ?, ?, ?)`

	selectRiskLevelsSQL = `SELECT risk_level, COUNT(*) AS cnt
		FROM txn
		GROUP BY risk_level
		ORDER BY cnt DESC, risk_level`

	selectScoreSampleSQL = `SELECT final_score FROM txn ORDER BY RANDOM() LIMIT ?`

	selectSummarySQL = `SELECT COUNT(*),
			COALESCE(SUM(is_fraud), 0),
			COALESCE(MIN(final_score), 0),
			COALESCE(MAX(final_score), 0),
			COALESCE(AVG(final_score), 0)
		FROM txn`
)

// RiskLevelCount is the number of transactions carrying one distinct
// risk level value.
type RiskLevelCount struct {
	Level string `json:"level" yaml:"level"`
	Count int    `json:"count" yaml:"count"`
}

// Summary holds display-only aggregates over the whole dataset.
type Summary struct {
	Transactions int     `json:"transactions" yaml:"transactions"`
	FraudLabeled int     `json:"fraud_labeled" yaml:"fraud_labeled"`
	MinScore     float64 `json:"min_score" yaml:"min_score"`
	MaxScore     float64 `json:"max_score" yaml:"max_score"`
	MeanScore    float64 `json:"mean_score" yaml:"mean_score"`
}

// Insights is the dataset-wide payload behind the collapsed panel.
type Insights struct {
	RiskLevels []*RiskLevelCount `json:"risk_levels" yaml:"risk_levels"`
	Sample     []float64         `json:"sample" yaml:"sample"`
	Summary    *Summary          `json:"summary" yaml:"summary"`
}

// Snapshot loads the dataset into an in-memory SQLite database so the
// insight aggregations can run as SQL. The snapshot lives only for the
// current render, the source file is never touched.
func Snapshot(d *Dataset) (*sql.DB, error) {
	if d == nil {
		return nil, errors.New("dataset required")
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open in-memory database")
	}
	// each pooled conn would get its own empty :memory: db
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(snapshotDDL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create snapshot schema")
	}

	if err := loadSnapshot(db, d); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func loadSnapshot(db *sql.DB, d *Dataset) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin snapshot load")
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertTxnSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare snapshot insert")
	}
	defer stmt.Close()

	for i := range d.Rows {
		t := d.transaction(i)
		level, _ := t.Field(ColRiskLevel)
		score, err := t.floatField(ColFinalScore)
		if err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
		label, err := t.intField(ColIsFraud)
		if err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
		if _, err := stmt.Exec(i, level, score, label); err != nil {
			return errors.Wrapf(err, "failed to load row %d into snapshot", i)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit snapshot load")
}

// GetRiskLevelDistribution returns transaction counts per distinct risk
// level value, most frequent first.
func GetRiskLevelDistribution(db *sql.DB) ([]*RiskLevelCount, error) {
	if db == nil {
		return nil, errors.New("database required")
	}
	rows, err := db.Query(selectRiskLevelsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query risk level distribution")
	}
	defer rows.Close()

	list := make([]*RiskLevelCount, 0)
	for rows.Next() {
		c := &RiskLevelCount{}
		if err := rows.Scan(&c.Level, &c.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan risk level row")
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading risk level rows")
	}
	return list, nil
}

// GetScoreSample returns up to n randomly sampled final scores sorted
// ascending. When the dataset holds fewer than n rows all of them are used.
// The x-axis of the resulting chart carries no meaning beyond rank.
func GetScoreSample(db *sql.DB, n int) ([]float64, error) {
	if db == nil {
		return nil, errors.New("database required")
	}
	if n <= 0 || n > ScoreSampleSizeDefault {
		n = ScoreSampleSizeDefault
	}

	rows, err := db.Query(selectScoreSampleSQL, n)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query score sample")
	}
	defer rows.Close()

	sample := make([]float64, 0, n)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "failed to scan score row")
		}
		sample = append(sample, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading score rows")
	}

	sort.Float64s(sample)
	return sample, nil
}

// GetSummary returns whole-dataset aggregates for the insights footer.
func GetSummary(db *sql.DB) (*Summary, error) {
	if db == nil {
		return nil, errors.New("database required")
	}
	s := &Summary{}
	row := db.QueryRow(selectSummarySQL)
	if err := row.Scan(&s.Transactions, &s.FraudLabeled, &s.MinScore, &s.MaxScore, &s.MeanScore); err != nil {
		return nil, errors.Wrap(err, "failed to scan dataset summary")
	}
	return s, nil
}

// GetInsights snapshots the dataset and gathers all three insight blocks.
func GetInsights(d *Dataset, sampleSize int) (*Insights, error) {
	db, err := Snapshot(d)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ins := &Insights{}

	var g errgroup.Group
	g.Go(func() error {
		levels, err := GetRiskLevelDistribution(db)
		if err == nil {
			ins.RiskLevels = levels
		}
		return err
	})
	g.Go(func() error {
		sample, err := GetScoreSample(db, sampleSize)
		if err == nil {
			ins.Sample = sample
		}
		return err
	})
	g.Go(func() error {
		sum, err := GetSummary(db)
		if err == nil {
			ins.Summary = sum
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ins, nil
}

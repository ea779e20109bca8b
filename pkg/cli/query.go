package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/fraudlens/fraudlens/pkg/data"
)

const (
	queryResultLimitDefault = 500
)

var (
	queryLimitFlag = &cli.IntFlag{
		Name:     "limit",
		Usage:    "Limits number of results returned",
		Value:    queryResultLimitDefault,
		Required: false,
	}

	txnIDFlag = &cli.StringFlag{
		Name:     "id",
		Usage:    "Transaction identifier",
		Required: false,
	}

	txnIndexFlag = &cli.IntFlag{
		Name:     "index",
		Usage:    "Transaction row index (when the export has no transaction_id column)",
		Value:    -1,
		Required: false,
	}

	sampleSizeFlag = &cli.IntFlag{
		Name:     "sample",
		Usage:    fmt.Sprintf("Score sample size (max %d)", data.ScoreSampleSizeDefault),
		Required: false,
	}

	queryCmd = &cli.Command{
		Name:            "query",
		Aliases:         []string{"q"},
		Usage:           "List data query operations",
		HideHelpCommand: true,
		Subcommands: []*cli.Command{
			{
				Name:    "transactions",
				Usage:   "List selectable transaction identifiers",
				Aliases: []string{"t"},
				Action:  cmdQueryTransactions,
				Flags: []cli.Flag{
					queryLimitFlag,
				},
			},
			{
				Name:    "transaction",
				Usage:   "Get the decision payload for one transaction",
				Aliases: []string{"d"},
				Action:  cmdQueryTransaction,
				Flags: []cli.Flag{
					txnIDFlag,
					txnIndexFlag,
				},
			},
			{
				Name:    "insights",
				Usage:   "Get dataset-wide insights (risk level distribution, score sample, summary)",
				Aliases: []string{"i"},
				Action:  cmdQueryInsights,
				Flags: []cli.Flag{
					sampleSizeFlag,
				},
			},
		},
	}
)

func cmdQueryTransactions(c *cli.Context) error {
	cfg := getConfig(c)

	ds, err := cfg.loadDataset()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	list := &transactionList{
		HasIDs: ds.HasIDs(),
		Count:  ds.Len(),
		IDs:    ds.IDs(),
	}
	limit := c.Int(queryLimitFlag.Name)
	if limit > 0 && len(list.IDs) > limit {
		list.IDs = list.IDs[:limit]
	}

	return encode(list)
}

func cmdQueryTransaction(c *cli.Context) error {
	id := c.String(txnIDFlag.Name)
	index := c.Int(txnIndexFlag.Name)
	if id == "" && index < 0 {
		return cli.ShowSubcommandHelp(c)
	}

	cfg := getConfig(c)

	ds, err := cfg.loadDataset()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	var txn *data.Transaction
	if id != "" {
		txn, err = ds.Select(id)
	} else {
		txn, err = ds.SelectIndex(index)
	}
	if err != nil {
		return fmt.Errorf("failed to select transaction: %w", err)
	}

	decision, err := data.MakeDecision(txn)
	if err != nil {
		return fmt.Errorf("failed to build decision: %w", err)
	}

	return encode(decision)
}

func cmdQueryInsights(c *cli.Context) error {
	cfg := getConfig(c)

	ds, err := cfg.loadDataset()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	n := c.Int(sampleSizeFlag.Name)
	if n <= 0 {
		n = cfg.SampleSize
	}

	ins, err := data.GetInsights(ds, n)
	if err != nil {
		return fmt.Errorf("failed to compute insights: %w", err)
	}

	return encode(ins)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/staffsearch/staffsearch/internal/core"
	errwrap "github.com/staffsearch/staffsearch/internal/errors"
	"github.com/staffsearch/staffsearch/internal/output"
	"github.com/staffsearch/staffsearch/internal/server/handlers"
)

var searchFlags struct {
	firstName  string
	lastName   string
	department string
	position   string
	location   string
	status     string
	selectList string
	limit      int
	offset     int
	format     string
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the employee store directly",
	Long: `Search the local employee store with the same filters and validation as the
HTTP endpoint, without going through the server or its rate limiter.

Examples:
  staffsearch search --department engineering --status ACTIVE
  staffsearch search --last-name smith --select id,first_name,email --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(searchFlags.format)
		if err != nil {
			return errwrap.NewInvalidInputError(err.Error())
		}

		ctx := cmd.Context()
		st, err := openConfiguredStore(ctx)
		if err != nil {
			return errwrap.WrapDatabaseError(ctx, err, "store initialization failed")
		}
		defer st.Close() // nolint:errcheck // closed on exit

		values := searchValues(cmd)
		return runSearch(ctx, st, values, format, cmd.OutOrStdout())
	},
}

// searchValues maps explicitly set flags onto the query parameters the HTTP
// endpoint accepts so both surfaces share one parser.
func searchValues(cmd *cobra.Command) url.Values {
	values := url.Values{}
	set := func(flag, param, value string) {
		if cmd.Flags().Changed(flag) {
			values.Set(param, value)
		}
	}
	set("first-name", "first_name", searchFlags.firstName)
	set("last-name", "last_name", searchFlags.lastName)
	set("department", "department", searchFlags.department)
	set("position", "position", searchFlags.position)
	set("location", "location", searchFlags.location)
	set("status", "status", searchFlags.status)
	set("select", "select", searchFlags.selectList)
	set("limit", "limit", strconv.Itoa(searchFlags.limit))
	set("offset", "offset", strconv.Itoa(searchFlags.offset))
	return values
}

func runSearch(ctx context.Context, searcher core.EmployeeSearcher, values url.Values, format output.Format, w io.Writer) error {
	query, err := handlers.ParseSearchQuery(values)
	if err != nil {
		return errwrap.FromSearchError(ctx, err)
	}

	result, err := searcher.SearchEmployees(ctx, query)
	if err != nil {
		return errwrap.FromSearchError(ctx, err)
	}

	rendered, err := output.NewFormatter(format).FormatSearch(result, query.Fields)
	if err != nil {
		return fmt.Errorf("render results: %w", err)
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.StringVar(&searchFlags.firstName, "first-name", "", "partial match on first name")
	f.StringVar(&searchFlags.lastName, "last-name", "", "partial match on last name")
	f.StringVar(&searchFlags.department, "department", "", "partial match on department")
	f.StringVar(&searchFlags.position, "position", "", "partial match on position")
	f.StringVar(&searchFlags.location, "location", "", "partial match on location")
	f.StringVar(&searchFlags.status, "status", "", "exact status: ACTIVE, INACTIVE or TERMINATED")
	f.StringVar(&searchFlags.selectList, "select", "", "comma-separated fields to return")
	f.IntVar(&searchFlags.limit, "limit", core.DefaultSearchLimit, fmt.Sprintf("page size (1-%d)", core.MaxSearchLimit))
	f.IntVar(&searchFlags.offset, "offset", 0, "number of matches to skip")
	f.StringVarP(&searchFlags.format, "output", "o", "table", "output format: table, json, markdown")
}

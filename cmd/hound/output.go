package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
	"github.com/rojolang/hound-sdk-go/pkg/hound"
)

// printResponse writes the long results of resp, or the whole body when there
// are none or a jq expression was given.
func printResponse(w io.Writer, resp *hound.Response) error {
	if jqExpr == "" {
		if long := resp.LongResults(); len(long) > 0 {
			for _, r := range long {
				fmt.Fprintln(w, r)
			}
			return nil
		}
	}
	return printJSON(w, resp.Body)
}

// printJSON pretty-prints data, filtered through --jq when set. Bodies that are
// not JSON are written as-is.
func printJSON(w io.Writer, data []byte) error {
	if jqExpr != "" {
		return runJQ(w, jqExpr, data)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		_, err = w.Write(data)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func runJQ(w io.Writer, expr string, data []byte) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}

	var input interface{}
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}

	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := v.(error); ok {
			return err
		}
		if s, ok := v.(string); ok {
			fmt.Fprintln(w, s)
			continue
		}
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
	}
}

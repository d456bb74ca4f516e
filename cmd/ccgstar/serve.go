package main

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/npillmayer/ccgstar/astar"
)

func newServeCommand(opts *appOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the parser as a JSON REST API",
		Long: `Serve accepts pre-scored sentence batches on POST /api/parse. The
request body is the same JSON document the parse command reads; the
response carries the N-best parses per sentence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGrammar(opts)
			if err != nil {
				return err
			}
			parser := astar.NewParser(g, newConfig(opts))
			mux := http.NewServeMux()
			mux.HandleFunc("/api/parse", handleParse(parser))
			tracer().Infof("listening on %s", addr)
			return http.ListenAndServe(addr, cors.Default().Handler(mux))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

type parseResponse struct {
	Request string       `json:"request"`
	Results []resultJSON `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func handleParse(parser *astar.Parser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "POST required"})
			return
		}
		reqID := uuid.NewString()
		var batch batchDoc
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		tracer().Infof("request %s: %d sentence(s)", reqID, len(batch.Sentences))
		results := parser.ParseBatch(batch.inputs())
		writeJSON(w, http.StatusOK, parseResponse{
			Request: reqID,
			Results: resultsToJSON(results),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		tracer().Errorf("encode error: %v", err)
	}
}

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/OdyseeTeam/fast-tx/blockchain"
	"github.com/OdyseeTeam/fast-tx/blockchain/stream"
	"github.com/OdyseeTeam/fast-tx/printer"
	"github.com/OdyseeTeam/fast-tx/prompt"
	"github.com/OdyseeTeam/fast-tx/storage"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// maxBodySize caps /decode request bodies: hex of a 4MB transaction.
const maxBodySize = 8 << 20

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Offset *int   `json:"offset,omitempty"`
	Field  string `json:"field,omitempty"`
}

// Handler serves POST /decode and, when index is not nil, GET /sql.
func Handler(chain blockchain.Chain, index *storage.Index) http.Handler {
	httpServeMux := http.NewServeMux()
	httpServeMux.Handle("/decode", decode(chain))
	if index != nil {
		httpServeMux.Handle("/sql", query(index))
	}
	return httpServeMux
}

// Start serves Handler on port in the background.
func Start(port int, chain blockchain.Chain, index *storage.Index) *http.Server {
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: Handler(chain, index)}
	go func() {
		logrus.Infof("listening on %s", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Error(err)
		}
	}()
	return srv
}

func decode(chain blockchain.Chain) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, errors.New("use POST with the transaction hex as the body"))
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		raw, err := prompt.ParseHex(string(body))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		decoded, err := chain.Store(raw)
		var decodeErr *stream.DecodeError
		if errors.As(err, &decodeErr) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		view, err := printer.NewTransaction(*decoded)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	})
}

func query(index *storage.Index) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.FormValue("query")
		if q == "" {
			writeError(w, http.StatusBadRequest, errors.New("missing query parameter"))
			return
		}

		results, err := index.Query(q)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, results)
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}

	var decodeErr *stream.DecodeError
	if errors.As(err, &decodeErr) {
		resp.Kind = decodeErr.Kind.String()
		resp.Offset = &decodeErr.Offset
		resp.Field = decodeErr.Field
	}

	if status >= http.StatusInternalServerError {
		logrus.Errorf("%+v", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

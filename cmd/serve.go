package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/moiramusic/moira/db"
	"github.com/moiramusic/moira/input"
	"github.com/moiramusic/moira/model"
	"github.com/moiramusic/moira/util"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the render API",
	Long:  `Serves the render API`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

// HandleRender renders the piece JSON in the request body to MIDI bytes.
func HandleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	piece, err := input.ParsePiece(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := piece.WriteSMF(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	renderID := uuid.New().String()
	zap.L().Info("rendered piece",
		zap.String("renderId", renderID),
		zap.Int("tracks", len(piece.Tracks)),
		zap.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("X-Render-Id", renderID)
	w.Write(buf.Bytes())
}

// HandleGetPieces returns stored metadata for up to 10 comma-separated ids.
func HandleGetPieces(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "ids query parameter missing")
		return
	}

	ids := strings.Split(raw, ",")
	ids = ids[:util.Min(len(ids), 10)]
	metadatas := db.GetPieceMetadatas(ids)

	found := util.GetKeys(metadatas)
	sort.Strings(found)
	zap.L().Info("fetched piece metadata", zap.Strings("found", found))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.PiecesResponse{Pieces: metadatas})
}

// HandlePutPiece stores metadata for one piece id.
func HandlePutPiece(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var m model.PieceMetadata
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "could not decode metadata: "+err.Error())
		return
	}

	db.PutPieceMetadata(id, m)
	w.WriteHeader(http.StatusNoContent)
}

// NewRouter wires the handlers; exported so tests can hit it with httptest.
func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/render", HandleRender).Methods("POST")
	router.HandleFunc("/pieces", HandleGetPieces).Methods("GET")
	router.HandleFunc("/pieces/{id}", HandlePutPiece).Methods("PUT")
	return cors.Default().Handler(router)
}

func serve() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("Could not create logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, NewRouter()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rook-computer/carousel/internal/app"
	"github.com/rook-computer/carousel/internal/catalog"
	"github.com/rook-computer/carousel/internal/logo"
	"github.com/rook-computer/carousel/internal/state"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type fontsResponse struct {
	Fonts      []catalog.FontChoice `json:"fonts"`
	Categories []catalog.Category   `json:"categories"`
	Default    catalog.FontChoice   `json:"default"`
}

type valueRequest struct {
	Value string `json:"value"`
}

type fontResponse struct {
	Applied bool        `json:"applied"`
	Style   state.Style `json:"style"`
}

type api struct {
	deps APIV1Deps
}

// registerAPIV1 mounts the API routes on r, which is expected to be the /api/v1 subrouter.
func registerAPIV1(r *mux.Router, deps APIV1Deps) {
	a := &api{deps: deps}
	r.HandleFunc("/fonts", a.handleFonts).Methods(http.MethodGet)
	r.HandleFunc("/colors", a.handleColors).Methods(http.MethodGet)
	r.HandleFunc("/view", a.handleView).Methods(http.MethodGet)

	r.HandleFunc("/style", a.handleGetStyle).Methods(http.MethodGet)
	r.HandleFunc("/style", a.handlePatchStyle).Methods(http.MethodPatch)
	r.HandleFunc("/style/background-color", a.valueSetter(deps.Session.SetBackgroundColor)).Methods(http.MethodPut)
	r.HandleFunc("/style/font-color", a.valueSetter(deps.Session.SetFontColor)).Methods(http.MethodPut)
	r.HandleFunc("/style/preview-text", a.valueSetter(deps.Session.SetPreviewText)).Methods(http.MethodPut)
	r.HandleFunc("/style/font", a.handleSelectFont).Methods(http.MethodPut)
	r.HandleFunc("/style/logo", a.handleUploadLogo).Methods(http.MethodPost)
	r.HandleFunc("/style/logo", a.handleClearLogo).Methods(http.MethodDelete)

	r.HandleFunc("/generate", a.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/back", a.handleBack).Methods(http.MethodPost)
	known := []string{
		"/fonts", "/colors", "/view", "/style",
		"/style/background-color", "/style/font-color", "/style/preview-text", "/style/font", "/style/logo",
		"/generate", "/back",
	}
	if deps.Events != nil {
		r.Handle("/events", deps.Events).Methods(http.MethodGet)
		known = append(known, "/events")
	}

	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	// mux reports a method mismatch as 404 once a later route fails to match,
	// so each known path gets an any-method route after its real ones.
	for _, path := range known {
		r.Handle(path, methodNotAllowed)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	r.MethodNotAllowedHandler = methodNotAllowed
}

func (a *api) handleFonts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fontsResponse{
		Fonts:      catalog.List(),
		Categories: catalog.Categories(),
		Default:    catalog.Default(),
	})
}

func (a *api) handleColors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.ColorPresets())
}

func (a *api) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.deps.Session.View())
}

func (a *api) handleGetStyle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.deps.Session.Style())
}

func (a *api) handlePatchStyle(w http.ResponseWriter, r *http.Request) {
	var patch app.StylePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if err := a.deps.Session.UpdateStyle(patch); err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.deps.Session.Style())
}

func (a *api) valueSetter(set func(string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req valueRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := set(req.Value); err != nil {
			a.writeSessionError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, a.deps.Session.Style())
	}
}

// handleSelectFont answers 200 for names outside the catalog too; the font is
// simply left unchanged and applied is false.
func (a *api) handleSelectFont(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	applied, err := a.deps.Session.SelectFont(req.Value)
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	if !applied {
		zerolog.Ctx(r.Context()).Debug().Str("font", req.Value).Msg("font not in catalog")
	}
	writeJSON(w, http.StatusOK, fontResponse{Applied: applied, Style: a.deps.Session.Style()})
}

func (a *api) handleClearLogo(w http.ResponseWriter, r *http.Request) {
	if err := a.deps.Session.ClearLogo(); err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.deps.Session.Style())
}

type ingestResult struct {
	asset logo.Asset
	err   error
}

// handleUploadLogo accepts a multipart form with a "file" part, or the raw
// image as the body (name in ?name=). The body is buffered before ingestion,
// so a client that goes away does not cancel it.
func (a *api) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	file, err := a.readUpload(r)
	if err != nil {
		var tooLarge *uploadTooLargeError
		if errors.As(err, &tooLarge) {
			writeAPIError(w, http.StatusRequestEntityTooLarge, "too_large", err.Error())
			return
		}
		writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	results := make(chan ingestResult, 1)
	err = a.deps.Session.IngestLogo(file, func(asset logo.Asset, err error) {
		results <- ingestResult{asset: asset, err: err}
	})
	if err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	select {
	case <-r.Context().Done():
		zerolog.Ctx(r.Context()).Info().Str("file", file.Filename).Msg("client left before logo ingest finished")
	case res := <-results:
		if res.err != nil {
			a.writeSessionError(w, r, res.err)
			return
		}
		writeJSON(w, http.StatusOK, a.deps.Session.Style())
	}
}

type uploadTooLargeError struct{ limit int64 }

func (e *uploadTooLargeError) Error() string {
	return fmt.Sprintf("upload exceeds %d bytes", e.limit)
}

func (a *api) readUpload(r *http.Request) (logo.BytesFile, error) {
	limit := a.deps.uploadLimit()
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := readLimited(r.Body, limit)
		if err != nil {
			return logo.BytesFile{}, err
		}
		return logo.BytesFile{Filename: r.URL.Query().Get("name"), Type: r.Header.Get("Content-Type"), Data: data}, nil
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return logo.BytesFile{}, fmt.Errorf("read multipart: %w", err)
	}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return logo.BytesFile{}, errors.New(`multipart form has no "file" part`)
		}
		if err != nil {
			return logo.BytesFile{}, fmt.Errorf("read multipart: %w", err)
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}
		data, err := readLimited(part, limit)
		_ = part.Close()
		if err != nil {
			return logo.BytesFile{}, err
		}
		return logo.BytesFile{Filename: part.FileName(), Type: part.Header.Get("Content-Type"), Data: data}, nil
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &uploadTooLargeError{limit: limit}
	}
	return data, nil
}

func (a *api) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if _, err := a.deps.Session.Generate(); err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.deps.Session.View())
}

func (a *api) handleBack(w http.ResponseWriter, r *http.Request) {
	if err := a.deps.Session.Back(); err != nil {
		a.writeSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a.deps.Session.View())
}

func (a *api) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrNotEditing):
		writeAPIError(w, http.StatusConflict, "not_editing", err.Error())
	case errors.Is(err, app.ErrNotPreviewing):
		writeAPIError(w, http.StatusConflict, "not_previewing", err.Error())
	case errors.Is(err, logo.ErrNotImage):
		writeAPIError(w, http.StatusUnsupportedMediaType, "not_image", err.Error())
	case errors.Is(err, logo.ErrTooLarge):
		writeAPIError(w, http.StatusRequestEntityTooLarge, "too_large", err.Error())
	case errors.Is(err, logo.ErrUnreadable):
		writeAPIError(w, http.StatusUnprocessableEntity, "unreadable", err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeAPIError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", "invalid JSON body: "+strings.TrimPrefix(err.Error(), "json: "))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}

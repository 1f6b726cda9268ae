package httpadapter

import (
	"encoding/base64"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

const (
	jsonBodyLimit   = 1 << 20
	multipartMemory = 8 << 20
)

func (rt *Router) processText(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeObject(w, r, max(jsonBodyLimit, rt.cfg.MaxUploadBytes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := missingFields(fields, "text", "minsize", "maxsize"); err != nil {
		writeError(w, r, err)
		return
	}

	text, textOK := rawString(fields["text"])
	minSize, maxSize, bad := parseSizes(fields["minsize"], fields["maxsize"])
	if !textOK {
		bad = append([]string{"text"}, bad...)
	}
	if len(bad) > 0 {
		writeError(w, r, invalidFields(bad))
		return
	}

	rec, err := rt.ingest.IngestText(r.Context(), domain.TextSubmission{
		Text:    text,
		MinSize: minSize,
		MaxSize: maxSize,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.recordCreated(rec)
	writeJSON(w, http.StatusOK, map[string]string{"id": rec.ID})
}

func (rt *Router) processFile(w http.ResponseWriter, r *http.Request) {
	var (
		sub domain.FileSubmission
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		sub, err = rt.fileFromJSON(w, r)
	} else {
		sub, err = rt.fileFromMultipart(w, r)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := rt.ingest.IngestFile(r.Context(), sub)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.recordCreated(rec)
	writeJSON(w, http.StatusOK, map[string]string{"id": rec.ID})
}

func (rt *Router) fileFromMultipart(w http.ResponseWriter, r *http.Request) (domain.FileSubmission, error) {
	// Allow for multipart framing and the size fields on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.FileSubmission{}, domain.WrapError(domain.ErrPayloadTooLarge, "parse multipart", err)
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return domain.FileSubmission{}, domain.Invalid("Malformed multipart body")
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return domain.FileSubmission{}, domain.Invalid("No file part in the request")
	}
	defer file.Close()

	var missing []string
	for _, name := range []string{"minsize", "maxsize"} {
		if _, ok := r.MultipartForm.Value[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return domain.FileSubmission{}, domain.Invalid("Missing fields: %s", strings.Join(missing, ", "))
	}

	var bad []string
	minSize, err := strconv.Atoi(strings.TrimSpace(r.FormValue("minsize")))
	if err != nil || minSize < 0 {
		bad = append(bad, "minsize")
	}
	maxSize, err := strconv.Atoi(strings.TrimSpace(r.FormValue("maxsize")))
	if err != nil || maxSize < 0 {
		bad = append(bad, "maxsize")
	}
	if len(bad) > 0 {
		return domain.FileSubmission{}, invalidFields(bad)
	}

	content, err := readLimited(file, rt.cfg.MaxUploadBytes)
	if err != nil {
		return domain.FileSubmission{}, err
	}
	return domain.FileSubmission{
		Filename: header.Filename,
		Content:  content,
		MinSize:  minSize,
		MaxSize:  maxSize,
	}, nil
}

// fileFromJSON accepts {"file": <base64>, "filename", "minsize", "maxsize"}.
func (rt *Router) fileFromJSON(w http.ResponseWriter, r *http.Request) (domain.FileSubmission, error) {
	// base64 inflates content by 4/3.
	fields, err := decodeObject(w, r, rt.cfg.MaxUploadBytes*4/3+jsonBodyLimit)
	if err != nil {
		return domain.FileSubmission{}, err
	}
	if _, ok := fields["file"]; !ok {
		return domain.FileSubmission{}, domain.Invalid("No file part in the request")
	}
	if err := missingFields(fields, "minsize", "maxsize"); err != nil {
		return domain.FileSubmission{}, err
	}
	minSize, maxSize, bad := parseSizes(fields["minsize"], fields["maxsize"])
	if len(bad) > 0 {
		return domain.FileSubmission{}, invalidFields(bad)
	}

	encoded, ok := rawString(fields["file"])
	if !ok {
		return domain.FileSubmission{}, invalidFields([]string{"file"})
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return domain.FileSubmission{}, domain.Invalid("File content could not be decoded")
	}
	if int64(len(content)) > rt.cfg.MaxUploadBytes {
		return domain.FileSubmission{}, domain.WrapError(domain.ErrPayloadTooLarge, "decode upload", errors.New("upload too large"))
	}

	filename := ""
	if raw, ok := fields["filename"]; ok {
		filename, _ = rawString(raw)
	}
	return domain.FileSubmission{
		Filename: filename,
		Content:  content,
		MinSize:  minSize,
		MaxSize:  maxSize,
	}, nil
}

func (rt *Router) rateSummary(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	fields, err := decodeObject(w, r, jsonBodyLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := missingFields(fields, "score"); err != nil {
		writeError(w, r, err)
		return
	}
	score, ok := rawNumber(fields["score"])
	if !ok {
		rt.recordRating("invalid")
		writeError(w, r, domain.Invalid(msgScoreRange))
		return
	}

	rating, err := rt.rater.Rate(r.Context(), id, score)
	if err != nil {
		rt.recordRating(ratingOutcome(err))
		writeError(w, r, err)
		return
	}
	rt.recordRating("applied")
	writeJSON(w, http.StatusOK, rating)
}

func (rt *Router) getSummary(w http.ResponseWriter, r *http.Request) {
	rec, err := rt.reader.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func ratingOutcome(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrScoreAlreadySet):
		return "already_set"
	case domain.IsKind(err, domain.ErrSummaryNotFound):
		return "not_found"
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

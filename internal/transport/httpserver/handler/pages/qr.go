package pages

import (
	"bytes"
	"errors"
	"image/png"
	"net/http"
	"strconv"

	listsdomain "bringlist/internal/domain/lists"
	"bringlist/internal/transport/httpserver/handler/common"
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/go-chi/chi/v5"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// ListQRCode serves a PNG QR code pointing at the list's share URL.
func (h *Handlers) ListQRCode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	size, err := parseQRSize(r.URL.Query().Get("size"))
	if err != nil {
		h.log.BusinessError("lists.qr: invalid size", err, "list_id", id)
		common.WriteError(w, http.StatusBadRequest, "Taille invalide")
		return
	}

	list, err := h.Lists.GetList(r.Context(), id)
	if err != nil {
		if errors.Is(err, listsdomain.ErrListNotFound) {
			h.log.BusinessError("lists.qr: list not found", err, "list_id", id)
			common.WriteError(w, http.StatusNotFound, "Liste non trouvée")
			return
		}
		h.log.InternalError("lists.qr: get list failed", err, "list_id", id)
		common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la récupération de la liste")
		return
	}

	image, err := encodeQR(h.ShareURL(list.ID), size)
	if err != nil {
		h.log.InternalError("lists.qr: encode failed", err, "list_id", id)
		common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la génération du QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image)
}

func encodeQR(content string, size int) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseQRSize(value string) (int, error) {
	if value == "" {
		return defaultQRSize, nil
	}
	size, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if size < minQRSize || size > maxQRSize {
		return 0, errors.New("size out of range")
	}
	return size, nil
}

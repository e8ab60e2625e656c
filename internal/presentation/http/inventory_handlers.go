package httppresentation

import (
	"bytes"
	"net/http"
	"strconv"

	appinv "github.com/BiharaCD/beverage-OS/internal/application/inventory"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/export"
)

func (h *Handler) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Inventory.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Inventory.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handleUpdateThreshold(w http.ResponseWriter, r *http.Request) {
	var cmd appinv.UpdateThresholdCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeDomainError(w, r, err)
		return
	}
	cmd.ItemID = r.PathValue("id")

	item, err := h.svc.UpdateThreshold.Execute(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handleExportInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Inventory.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteInventory(&buf, items); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleReceiveGoods(w http.ResponseWriter, r *http.Request) {
	var cmd appinv.ReceiveGoodsCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeDomainError(w, r, err)
		return
	}
	grn, err := h.svc.ReceiveGoods.Execute(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, grn)
}

func (h *Handler) handleDispatchGoods(w http.ResponseWriter, r *http.Request) {
	var cmd appinv.DispatchGoodsCommand
	if err := decodeJSON(r, &cmd); err != nil {
		writeDomainError(w, r, err)
		return
	}
	d, err := h.svc.DispatchGoods.Execute(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

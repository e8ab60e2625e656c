package httppresentation

import (
	"net/http"

	"github.com/BiharaCD/beverage-OS/internal/application/records"
	"github.com/BiharaCD/beverage-OS/internal/domain/document"
)

type statusRequest struct {
	Status string `json:"status"`
}

type qcResultRequest struct {
	QCResult string `json:"QCresult"`
}

func createRecord[T any, P interface {
	*T
	document.Document
}](svc *records.Service[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := new(T)
		if err := decodeJSON(r, doc); err != nil {
			writeDomainError(w, r, err)
			return
		}
		created, err := svc.Create(r.Context(), doc)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func listRecords[T any, P interface {
	*T
	document.Document
}](svc *records.Service[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := svc.List(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

func getRecord[T any, P interface {
	*T
	document.Document
}](svc *records.Service[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func setRecordStatus[T any, P interface {
	*T
	document.Document
}](svc *records.Service[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDomainError(w, r, err)
			return
		}
		doc, err := svc.SetStatus(r.Context(), r.PathValue("id"), req.Status)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func setRecordQCResult[T any, P interface {
	*T
	document.Document
}](svc *records.Service[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req qcResultRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDomainError(w, r, err)
			return
		}
		doc, err := svc.SetQCResult(r.Context(), r.PathValue("id"), req.QCResult)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func updateRecord[T any, P interface {
	*T
	document.Document
}](svc *records.Service[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := new(T)
		if err := decodeJSON(r, next); err != nil {
			writeDomainError(w, r, err)
			return
		}
		doc, err := svc.Update(r.Context(), r.PathValue("id"), next)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func deleteRecord[T any, P interface {
	*T
	document.Document
}](svc *records.Service[T, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), r.PathValue("id")); err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeMessage(w, http.StatusOK, svc.Label()+" deleted successfully")
	}
}

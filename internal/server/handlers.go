package server

import (
	"encoding/json"
	"errors"
	"github.com/gorilla/mux"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"
	"io"
	"net/http"
	"social-media-api/internal/service"
	"social-media-api/internal/storage"
	"strconv"
)

type parsers struct {
	accountPool fastjson.ParserPool
	messagePool fastjson.ParserPool
	editPool    fastjson.ParserPool
}

type handler struct {
	logger   *zap.SugaredLogger
	accounts *service.AccountService
	messages *service.MessageService
	parsers  parsers
}

// fieldError is returned by field extractors, its text is sent to the client as is
type fieldError string

func (e fieldError) Error() string { return string(e) }

func stringField(v *fastjson.Value, name string) (string, error) {
	if !v.Exists(name) {
		return "", fieldError("Missing Field \"" + name + "\"")
	}

	b, err := v.Get(name).StringBytes()
	if err != nil {
		return "", fieldError("Field \"" + name + "\" must be a string")
	}

	return string(b), nil
}

func int64Field(v *fastjson.Value, name string) (int64, error) {
	if !v.Exists(name) {
		return 0, fieldError("Missing Field \"" + name + "\"")
	}

	n, err := v.Get(name).Int64()
	if err != nil {
		return 0, fieldError("Field \"" + name + "\" must be a 64-bit integer value")
	}

	return n, nil
}

// parseAccount extracts username and password from request body validated by requireJSON
func (h *handler) parseAccount(r *http.Request) (storage.Account, error) {
	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.accountPool.Get()
	defer h.parsers.accountPool.Put(parser)
	v, err := parser.ParseBytes(body)
	if err != nil {
		return storage.Account{}, fieldError("Malformed JSON")
	}

	username, err := stringField(v, "username")
	if err != nil {
		return storage.Account{}, err
	}

	password, err := stringField(v, "password")
	if err != nil {
		return storage.Account{}, err
	}

	return storage.Account{Username: username, Password: password}, nil
}

// pathID parses the named mux path variable as a 64-bit integer
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, fieldError("Path parameter \"" + name + "\" must be a 64-bit integer value")
	}
	return id, nil
}

// register handles HTTP requests on "/register" endpoint
func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.parseAccount(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.accounts.Register(r.Context(), candidate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			http.Error(w, "Username already taken", http.StatusConflict)
		case errors.Is(err, service.ErrInvalid):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.internalError(w, err)
		}
		return
	}

	h.writeJSON(w, account)
}

// login handles HTTP requests on "/login" endpoint
func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.parseAccount(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.accounts.VerifyLogin(r.Context(), candidate)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, account)
}

// createMessage handles POST requests on "/messages" endpoint
func (h *handler) createMessage(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.messagePool.Get()
	defer h.parsers.messagePool.Put(parser)
	v, err := parser.ParseBytes(body)
	if err != nil {
		http.Error(w, "Malformed JSON", http.StatusBadRequest)
		return
	}

	postedBy, err := int64Field(v, "posted_by")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	text, err := stringField(v, "message_text")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// time is optional and opaque
	var timePosted int64
	if v.Exists("time_posted_epoch") {
		timePosted, err = int64Field(v, "time_posted_epoch")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	m, err := h.messages.Create(r.Context(), storage.Message{
		PostedBy:        postedBy,
		Text:            text,
		TimePostedEpoch: timePosted,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, m)
}

// allMessages handles GET requests on "/messages" endpoint
func (h *handler) allMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.GetAll(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, messages)
}

// messageByID handles GET requests on "/messages/{message_id}" endpoint,
// an absent message is reported as an empty 200 response
func (h *handler) messageByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "message_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.messages.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, m)
}

// deleteMessage handles DELETE requests on "/messages/{message_id}" endpoint,
// it responds with the number of deleted rows or an empty body
func (h *handler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "message_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err = h.messages.DeleteByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, 1)
}

// editMessage handles PATCH requests on "/messages/{message_id}" endpoint,
// it responds with the number of updated rows
func (h *handler) editMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "message_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, _ := io.ReadAll(r.Body)

	parser := h.parsers.editPool.Get()
	defer h.parsers.editPool.Put(parser)
	v, err := parser.ParseBytes(body)
	if err != nil {
		http.Error(w, "Malformed JSON", http.StatusBadRequest)
		return
	}

	text, err := stringField(v, "message_text")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err = h.messages.Edit(r.Context(), id, text)
	if err != nil {
		if errors.Is(err, service.ErrInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, 1)
}

// messagesByAccount handles GET requests on "/accounts/{account_id}/messages" endpoint
func (h *handler) messagesByAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "account_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	messages, err := h.messages.GetAllByUser(r.Context(), id)
	if err != nil {
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, messages)
}

func (h *handler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error(err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *handler) writeJSON(w http.ResponseWriter, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(payload)
	if err != nil {
		h.logger.Errorf("writing marshaled data to ResponseWriter: %v", err)
	}
}

// Package router разбирает сообщения протокола и направляет их в vault и сервис учётных записей.
package router

import (
	"VaultKeeper/internal/generator"
	"VaultKeeper/internal/model"
	"encoding/json"
	"errors"
	"fmt"
)

// Типы сообщений протокола.
const (
	TypeStatus                  = "STATUS"
	TypeUnlock                  = "UNLOCK"
	TypeLock                    = "LOCK"
	TypeListCredentials         = "LIST_CREDENTIALS"
	TypeGetCredentialsForOrigin = "GET_CREDENTIALS_FOR_ORIGIN"
	TypeSaveCredential          = "SAVE_CREDENTIAL"
	TypeDeleteCredential        = "DELETE_CREDENTIAL"
	TypeSetAutolock             = "SET_AUTOLOCK"
	TypeGeneratePassword        = "GENERATE_PASSWORD"
)

var (
	ErrBadRequest     = errors.New("bad request")
	ErrUnknownCommand = errors.New("unknown command")
)

// Request — закрытое множество запросов. Реализуется только типами этого пакета.
type Request interface {
	Type() string
}

type StatusRequest struct{}

type UnlockRequest struct {
	Password string `json:"password"`
}

type LockRequest struct{}

type ListCredentialsRequest struct{}

type GetCredentialsForOriginRequest struct {
	Origin string `json:"origin"`
}

type SaveCredentialRequest struct {
	Credential model.Credential `json:"credential"`
}

type DeleteCredentialRequest struct {
	ID string `json:"id"`
}

// SetAutolockRequest принимает durationMs; ms оставлен для старых клиентов.
type SetAutolockRequest struct {
	DurationMs int64 `json:"durationMs"`
	Ms         int64 `json:"ms,omitempty"`
}

type GeneratePasswordRequest struct {
	Options generator.Options `json:"options"`
}

func (StatusRequest) Type() string                  { return TypeStatus }
func (UnlockRequest) Type() string                  { return TypeUnlock }
func (LockRequest) Type() string                    { return TypeLock }
func (ListCredentialsRequest) Type() string         { return TypeListCredentials }
func (GetCredentialsForOriginRequest) Type() string { return TypeGetCredentialsForOrigin }
func (SaveCredentialRequest) Type() string          { return TypeSaveCredential }
func (DeleteCredentialRequest) Type() string        { return TypeDeleteCredential }
func (SetAutolockRequest) Type() string             { return TypeSetAutolock }
func (GeneratePasswordRequest) Type() string        { return TypeGeneratePassword }

// Envelope — сообщение протокола в JSON: {"type": "...", ...поля запроса}.
// Encode добавляет поле type к полям запроса.
func Encode(req Request) ([]byte, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["type"], _ = json.Marshal(req.Type())
	return json.Marshal(fields)
}

// Decode разбирает JSON-сообщение в конкретный тип запроса.
func Decode(data []byte) (Request, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	var req Request
	switch env.Type {
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrBadRequest)
	case TypeStatus:
		return StatusRequest{}, nil
	case TypeLock:
		return LockRequest{}, nil
	case TypeListCredentials:
		return ListCredentialsRequest{}, nil
	case TypeUnlock:
		var r UnlockRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		req = r
	case TypeGetCredentialsForOrigin:
		var r GetCredentialsForOriginRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		req = r
	case TypeSaveCredential:
		var r SaveCredentialRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		req = r
	case TypeDeleteCredential:
		var r DeleteCredentialRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		req = r
	case TypeSetAutolock:
		var r SetAutolockRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		if r.DurationMs == 0 {
			r.DurationMs = r.Ms
		}
		req = r
	case TypeGeneratePassword:
		var r GeneratePasswordRequest
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		req = r
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Type)
	}
	return req, nil
}

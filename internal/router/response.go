package router

import (
	"VaultKeeper/internal/model"
	"encoding/json"
)

// ErrorKind — тип ошибки в ответе протокола.
type ErrorKind string

const (
	KindInvalidPassword ErrorKind = "InvalidPassword"
	KindVaultLocked     ErrorKind = "VaultLocked"
	KindCorruptVault    ErrorKind = "CorruptVault"
	KindStorageFailure  ErrorKind = "StorageFailure"
	KindNotInitialized  ErrorKind = "NotInitialized"
	KindBadRequest      ErrorKind = "BadRequest"
	KindUnknownCommand  ErrorKind = "UnknownCommand"
	KindInternal        ErrorKind = "Internal"
)

// Response — результат обработки: либо payload, либо типизированная ошибка.
// В JSON поля payload лежат на верхнем уровне рядом с ok.
type Response struct {
	OK      bool
	Kind    ErrorKind
	Message string
	Payload any
}

type StatusPayload struct {
	Unlocked   bool  `json:"unlocked"`
	AutolockMs int64 `json:"autolockMs"`
}

type CredentialsPayload struct {
	Credentials []model.Credential `json:"credentials"`
}

type SavePayload struct {
	ID string `json:"id"`
}

type PasswordPayload struct {
	Password string `json:"password"`
}

func success(payload any) Response {
	return Response{OK: true, Payload: payload}
}

func failure(kind ErrorKind, msg string) Response {
	return Response{Kind: kind, Message: msg}
}

func (r Response) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if r.Payload != nil {
		raw, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
	}
	fields["ok"], _ = json.Marshal(r.OK)
	if !r.OK {
		fields["error"], _ = json.Marshal(r.Kind)
		fields["message"], _ = json.Marshal(r.Message)
	}
	return json.Marshal(fields)
}

// Reply — декодированный ответ на стороне клиента.
type Reply struct {
	OK          bool               `json:"ok"`
	Error       ErrorKind          `json:"error,omitempty"`
	Message     string             `json:"message,omitempty"`
	Unlocked    bool               `json:"unlocked,omitempty"`
	AutolockMs  int64              `json:"autolockMs,omitempty"`
	Credentials []model.Credential `json:"credentials,omitempty"`
	ID          string             `json:"id,omitempty"`
	Password    string             `json:"password,omitempty"`
}

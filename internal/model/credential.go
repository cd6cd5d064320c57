package model

// Credential — одна учётная запись в хранилище.
type Credential struct {
	ID       string   `json:"id"`
	Origins  []string `json:"origins"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Notes    string   `json:"notes"`
}

// MatchesOrigin reports whether origin is one of the credential's origins.
func (c Credential) MatchesOrigin(origin string) bool {
	for _, o := range c.Origins {
		if o == origin {
			return true
		}
	}
	return false
}

// Document — расшифрованное содержимое хранилища. Существует только в памяти.
type Document struct {
	Credentials []Credential `json:"credentials"`
}

// IndexOf возвращает позицию записи с указанным id или -1.
func (d *Document) IndexOf(id string) int {
	for i := range d.Credentials {
		if d.Credentials[i].ID == id {
			return i
		}
	}
	return -1
}

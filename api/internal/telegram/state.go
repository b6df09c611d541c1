package telegram

import "sync"

// ProfileManager remembers the feedback profile each chat picked.
type ProfileManager struct {
	def string
	m   sync.Map // chatID -> string
}

func NewProfileManager(defaultProfile string) *ProfileManager {
	return &ProfileManager{def: defaultProfile}
}

// Get returns the chat's profile, falling back to the default.
func (m *ProfileManager) Get(chatID int64) string {
	if v, ok := m.m.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return m.def
}

func (m *ProfileManager) Set(chatID int64, name string) { m.m.Store(chatID, name) }

func (m *ProfileManager) Reset(chatID int64) { m.m.Delete(chatID) }

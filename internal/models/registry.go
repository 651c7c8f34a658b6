package models

// All returns every model in migration order, parents first
func All() []interface{} {
	return []interface{}{
		&User{},
		&Question{},
		&Answer{},
		&Vote{},
		&FlagRecord{},
		&ReputationEvent{},
		&Badge{},
		&Award{},
		&Comment{},
		&Favorite{},
		&Watcher{},
		&Notification{},
	}
}

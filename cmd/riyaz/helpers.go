package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/kiddomusic/riyaz/internal/common"
	"github.com/kiddomusic/riyaz/internal/config"
	"github.com/kiddomusic/riyaz/internal/model"
	"github.com/kiddomusic/riyaz/internal/service"
	"github.com/kiddomusic/riyaz/internal/storage"
)

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// getTeacher builds the teacher matcher from configuration.
func getTeacher() (model.Teacher, error) {
	aliases := viper.GetStringSlice("teacher.aliases")
	if len(aliases) == 0 {
		return model.Teacher{}, common.NewUserError(
			"no teacher configured; set teacher.aliases in the config file or RIYAZ_TEACHER_ALIASES",
			common.ErrMissingConfig)
	}
	return model.NewTeacher(aliases...), nil
}

// loadAllMessages fetches the whole archive in chronological order, the
// shape every downstream stage expects.
func loadAllMessages(ctx context.Context, store service.Storage) ([]model.Message, error) {
	messages, err := store.GetMessages(ctx, service.MessageFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return messages, nil
}

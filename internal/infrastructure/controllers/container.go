package controllers

import (
	"go.uber.org/dig"

	"github.com/xnmeet/evem/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewVersionController); err != nil {
		return err
	}
	if err := container.Provide(NewPublishController); err != nil {
		return err
	}
	if err := container.Provide(NewChangeController); err != nil {
		return err
	}
	if err := container.Provide(NewInitController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	initController *InitController,
	changeController *ChangeController,
	versionController *VersionController,
	publishController *PublishController,
) *[]entities.Controller {
	return &[]entities.Controller{
		initController,
		changeController,
		versionController,
		publishController,
	}
}

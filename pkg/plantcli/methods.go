package plantcli

import (
	"encoding/json"

	"github.com/plantd/plantd/common"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	return &d, json.Unmarshal(resp, &d)
}

// List returns the tracked plants. Set needsWaterOnly to restrict the
// listing to plants awaiting water.
func (c *Client) List(needsWaterOnly bool) (*common.ListResponse, error) {
	return invoke[common.ListResponse](c, common.UPDATE_LIST, &common.ListParams{
		NeedsWaterOnly: needsWaterOnly,
	})
}

// Get returns one plant by id.
func (c *Client) Get(plantId string) (*common.PlantResponse, error) {
	return invoke[common.PlantResponse](c, common.UPDATE_GET, &common.InputPlantId{
		PlantId: plantId,
	})
}

// Add creates a plant.
func (c *Client) Add(params *common.AddPlantParams) (*common.PlantResponse, error) {
	return invoke[common.PlantResponse](c, common.UPDATE_ADD, params)
}

// Remove deletes a plant.
func (c *Client) Remove(plantId string) (bool, error) {
	_, err := c.invoke(common.UPDATE_REMOVE, &common.InputPlantId{PlantId: plantId})
	return err == nil, err
}

// Water marks a plant as watered.
func (c *Client) Water(plantId string) (*common.PlantResponse, error) {
	return invoke[common.PlantResponse](c, common.UPDATE_WATER, &common.WaterParams{
		PlantId: plantId,
	})
}

// Update applies field updates to a plant (name, species, notes).
func (c *Client) Update(plantId string, fields map[string]any) (*common.PlantResponse, error) {
	return invoke[common.PlantResponse](c, common.UPDATE_EDIT, &common.UpdatePlantParams{
		PlantId: plantId,
		Fields:  fields,
	})
}

// SetSchedule replaces a plant's watering schedule.
func (c *Client) SetSchedule(plantId string, schedule []string) (*common.PlantResponse, error) {
	return invoke[common.PlantResponse](c, common.UPDATE_SCHEDULE, &common.ScheduleParams{
		PlantId:  plantId,
		Schedule: schedule,
	})
}

// Focus marks a plant as the currently viewed one; pass an empty id to
// clear it.
func (c *Client) Focus(plantId string) (bool, error) {
	_, err := c.invoke(common.UPDATE_FOCUS, &common.FocusParams{PlantId: plantId})
	return err == nil, err
}

// Attach subscribes this connection to push updates and returns the current
// collection snapshot. Call Listen afterwards to receive the updates.
func (c *Client) Attach() (*common.ListResponse, error) {
	return invoke[common.ListResponse](c, common.UPDATE_ATTACH, struct{}{})
}

// Login authenticates with the remote store and starts the watering
// session.
func (c *Client) Login(email, password string) (*common.LoginResponse, error) {
	return invoke[common.LoginResponse](c, common.UPDATE_LOGIN, &common.LoginParams{
		Email:    email,
		Password: password,
	})
}

// Logout ends the watering session and discards saved credentials.
func (c *Client) Logout() (bool, error) {
	_, err := c.invoke(common.UPDATE_LOGOUT, struct{}{})
	return err == nil, err
}

// Status reports the daemon's session and poller state.
func (c *Client) Status() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_STATUS, struct{}{})
}

// Version reports the daemon's version.
func (c *Client) Version() (*common.VersionResponse, error) {
	return invoke[common.VersionResponse](c, common.UPDATE_VERSION, struct{}{})
}

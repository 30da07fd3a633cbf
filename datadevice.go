package wlrelay

import (
	"github.com/neurlang/wayland/wlserver"
)

// bindDataDeviceManager binds wl_data_device_manager as a stub: clipboard
// and drag-and-drop are out of scope, so get_data_device hands back a
// device that accepts set_selection/start_drag/release as no-ops and
// create_data_source is refused outright.
func bindDataDeviceManager(c *Client, newID uint32, version uint32) error {
	serverMgr := wlserver.NewDataDeviceManager(c.guest, newID, version)

	serverMgr.SetCreateDataSourceHandler(func(newSourceID uint32) (*wlserver.DataSource, error) {
		return nil, protocolErrorf("wl_data_device_manager", "create_data_source is not supported by this relay")
	})

	serverMgr.SetGetDataDeviceHandler(func(newDeviceID uint32, seat *wlserver.Seat) (*wlserver.DataDevice, error) {
		if _, err := peerData[*SeatData]("Seat", seat); err != nil {
			return nil, err
		}
		device := wlserver.NewDataDevice(c.guest, newDeviceID)
		attach(device, &DataDeviceData{})
		wireDataDevice(device)
		return device, nil
	})

	return nil
}

// wireDataDevice implements the no-op stub: selection and drag-and-drop
// requests succeed without taking any action, since no host data device
// is ever paired with this proxy. release tears down the proxy like any
// other client-initiated destructor.
func wireDataDevice(device *wlserver.DataDevice) {
	device.SetSetSelectionHandler(func(source *wlserver.DataSource, serial uint32) error {
		return nil
	})
	device.SetStartDragHandler(func(source *wlserver.DataSource, origin *wlserver.Surface, icon *wlserver.Surface, serial uint32) error {
		return nil
	})
	device.SetReleaseHandler(func() error {
		return device.Destroy()
	})
}

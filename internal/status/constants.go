// internal/status/constants.go
package status

// Monitor Status Block layout constants.
// These values define the register protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of holding registers per monitored device.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the monitor health state.
const SlotHealthCode = 0

// SlotJankFrames holds the low 16 bits of the jank frame counter.
const SlotJankFrames = 1

// SlotRemediations holds the low 16 bits of the remediation counter.
const SlotRemediations = 2

// SlotLastDelta holds the last frame delta in 0.1ms units, saturating.
const SlotLastDelta = 3

// SlotSamples holds the low 16 bits of the sample counter.
const SlotSamples = 4

// LiveSlots is the number of slots rewritten on incremental updates.
const LiveSlots = 5

// ---- RESERVED RANGE ----

// Slots 5–10 are reserved for future use.
const SlotReservedStart = 5
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown is the boot state before the first poll.
const HealthUnknown uint16 = 0

// HealthMonitoring means sampling is active and the last interval was smooth.
const HealthMonitoring uint16 = 1

// HealthJank means at least one jank frame was seen since the previous poll.
const HealthJank uint16 = 2

// HealthIdle means monitoring is stopped.
const HealthIdle uint16 = 4

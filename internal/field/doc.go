// Package field implements the particle-network backdrop.
//
// A fixed set of nodes drifts inside a cube, bouncing off its faces. Every
// frame the edge set is rebuilt by testing all unordered node pairs against
// the connection threshold. This is O(n²) on purpose; node counts are capped
// at 200 and the scan is not meant to scale past that.
//
//   - [Field]: node state, [Field.Step], edge recompute
//   - [Renderer]: mounts on a [host.Host], owns pointer picking, camera
//     easing, pulse modulation and the drawing [Surface]
//   - [Loop]: explicitly owned frame loop with Start/Stop
//
// # Example
//
//	r := field.NewRenderer(field.Options{Settings: field.Configure(1440)})
//	r.Mount(h)
//	loop := field.NewLoop(clock.New(), 60, r.Frame)
//	loop.Start()
//	defer func() { loop.Stop(); r.Unmount() }()
package field

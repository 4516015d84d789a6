package viz

import (
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

// Vec3 methods.
func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// RotateY rotates v about the Y axis by a radians.
func (v Vec3) RotateY(a float64) Vec3 {
	c, s := math.Cos(a), math.Sin(a)
	return Vec3{v.X*c + v.Z*s, v.Y, -v.X*s + v.Z*c}
}

// Camera is a perspective camera that always looks at Target.
type Camera struct {
	Position, Target, Up Vec3
	FOV, Near, Far       float64
}

// NewCamera returns a 75° camera on the +Z axis at distance z looking at the origin.
func NewCamera(z float64) *Camera {
	return &Camera{Position: Vec3{0, 0, z}, Up: Vec3{0, 1, 0}, FOV: 75 * math.Pi / 180, Near: 0.1, Far: 1000}
}

// basis returns the camera's right, up and forward unit vectors.
func (c *Camera) basis() (right, up, fwd Vec3) {
	fwd = c.Target.Sub(c.Position).Normalize()
	right = fwd.Cross(c.Up).Normalize()
	if right.Length() == 0 {
		right = Vec3{1, 0, 0}
	}
	up = right.Cross(fwd)
	return right, up, fwd
}

// Project converts world coordinates to screen coordinates on a sw×sh surface.
// Returns x, y, depth along the view axis, and whether the point lies inside
// the frustum and on screen.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	if sw <= 0 || sh <= 0 {
		return 0, 0, 0, false
	}
	right, up, fwd := c.basis()
	d := p.Sub(c.Position)
	z := d.Dot(fwd)
	if z < c.Near || z > c.Far {
		return 0, 0, z, false
	}
	aspect := float64(sw) / float64(sh)
	tan := math.Tan(c.FOV / 2)
	ndcX := d.Dot(right) / (z * tan * aspect)
	ndcY := d.Dot(up) / (z * tan)
	sx := int((ndcX + 1) / 2 * float64(sw))
	sy := int((1 - ndcY) / 2 * float64(sh))
	return sx, sy, z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Ray is a half-line from Origin along the unit vector Dir.
type Ray struct {
	Origin, Dir Vec3
}

// RayFromNDC builds the ray through normalized device coordinates
// (x right, y up, both in [-1, 1]) for a surface with the given aspect ratio.
func (c *Camera) RayFromNDC(ndcX, ndcY, aspect float64) Ray {
	right, up, fwd := c.basis()
	tan := math.Tan(c.FOV / 2)
	dir := fwd.Add(right.Scale(ndcX * tan * aspect)).Add(up.Scale(ndcY * tan))
	return Ray{Origin: c.Position, Dir: dir.Normalize()}
}

// Closest returns the distance along the ray to the point nearest p and the
// perpendicular distance between p and the ray. Points behind the origin
// report along < 0.
func (r Ray) Closest(p Vec3) (along, dist float64) {
	along = p.Sub(r.Origin).Dot(r.Dir)
	nearest := r.Origin.Add(r.Dir.Scale(along))
	return along, p.Sub(nearest).Length()
}

package display

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/cspace/collision"
	"go.viam.com/cspace/components/arm/universalrobots"
	"go.viam.com/cspace/referenceframe"
	"go.viam.com/cspace/spatialmath"
)

func snapshotScene(t *testing.T) *collision.Scene {
	t.Helper()
	model, err := universalrobots.MakeModelFrame("")
	test.That(t, err, test.ShouldBeNil)
	ball, err := spatialmath.NewSphere(spatialmath.NewPoseFromPoint(r3.Vector{X: -0.8, Z: -0.8}), 0.1, "ball")
	test.That(t, err, test.ShouldBeNil)
	scene, err := collision.NewScene(model, []spatialmath.Geometry{ball})
	test.That(t, err, test.ShouldBeNil)
	return scene
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestSnapshotDraw(t *testing.T) {
	scene := snapshotScene(t)
	full := referenceframe.FloatsToInputs(make([]float64, scene.DoF()))
	snap := DefaultSnapshot()

	dc, err := snap.Draw(scene, full, r2.Point{X: 0.5, Y: 0.5})
	test.That(t, err, test.ShouldBeNil)
	img := dc.Image()
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, snap.Size)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, snap.Size)

	bx, by := snap.project(r3.Vector{})
	test.That(t, sameColor(img.At(int(bx), int(by)), color.Black), test.ShouldBeTrue)
	ox, oy := snap.project(r3.Vector{X: -0.8, Z: -0.8})
	test.That(t, sameColor(img.At(int(ox), int(oy)), obstacleColor), test.ShouldBeTrue)
	test.That(t, sameColor(img.At(0, 0), backgroundColor), test.ShouldBeTrue)

	_, err = Snapshot{Size: 0, Extent: 1}.Draw(scene, full, r2.Point{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSnapshotSave(t *testing.T) {
	scene := snapshotScene(t)
	full := referenceframe.FloatsToInputs(make([]float64, scene.DoF()))
	path := filepath.Join(t.TempDir(), "arm.png")

	test.That(t, DefaultSnapshot().Save(path, scene, full, r2.Point{X: 0.5, Y: 0.5}), test.ShouldBeNil)
	info, err := os.Stat(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
}

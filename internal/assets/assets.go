package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math"
	"os"

	"golang.org/x/image/draw"

	"crazycars/internal/race"
)

// ErrAsset marks a missing or unusable image.
var ErrAsset = errors.New("assets: unusable asset")

// DefaultCarScale shrinks the shipped car sprites to track scale.
const DefaultCarScale = 0.4

// File names looked up by LoadFiles.
const (
	FileGrass       = "grass.jpg"
	FileTrack       = "track.png"
	FileTrackBorder = "track-border.png"
	FileFinish      = "finish.png"
	FilePlayerCar   = "red-car.png"
	FileComputerCar = "purple-car.png"
)

// Layout is the placement data that belongs to one set of track images.
type Layout struct {
	PlayerStart   race.Vec
	ComputerStart race.Vec
	FinishPos     image.Point
	FinishGuard   int // finish-mask column; negative derives it from the mask
	Path          []image.Point
}

// FilesLayout is the layout of the track art loaded by LoadFiles.
func FilesLayout() Layout {
	return Layout{
		PlayerStart:   race.Vec{X: 580, Y: 885},
		ComputerStart: race.Vec{X: 580, Y: 945},
		FinishPos:     image.Pt(517, 862),
		FinishGuard:   -1,
		Path: []image.Point{
			{871, 972}, {964, 908}, {1001, 784}, {987, 710}, {915, 678},
			{854, 630}, {877, 431}, {964, 403}, {994, 293}, {943, 187},
			{873, 136}, {715, 130}, {651, 186}, {622, 254}, {621, 599},
			{576, 671}, {498, 689}, {416, 629}, {389, 392}, {334, 334},
			{164, 325}, {103, 410}, {95, 473}, {93, 837}, {137, 922},
			{207, 955}, {352, 961}, {533, 967},
		},
	}
}

// Bundle is everything a session needs from its images: the pictures for
// drawing, their collision masks and the layout.
type Bundle struct {
	Grass       image.Image
	Track       image.Image
	Border      image.Image
	Finish      image.Image
	PlayerCar   image.Image
	ComputerCar image.Image

	BorderMask   *race.Mask
	FinishMask   *race.Mask
	PlayerMask   *race.Mask
	ComputerMask *race.Mask

	Layout Layout
}

// Size is the size of the track image, which is also the world size.
func (b *Bundle) Size() (int, int) {
	r := b.Track.Bounds()
	return r.Dx(), r.Dy()
}

// RaceTrack builds the collision geometry with the bundle's layout.
func (b *Bundle) RaceTrack() (*race.Track, error) {
	return race.NewTrack(b.BorderMask, b.FinishMask, b.Layout.FinishPos, b.Layout.FinishGuard)
}

func (b *Bundle) Footprints() race.Footprints {
	return race.Footprints{Player: b.PlayerMask, Computer: b.ComputerMask}
}

// LoadFiles reads the track images from dir.
func LoadFiles(dir string, carScale float64, threshold uint8) (*Bundle, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAsset, err)
	}
	return LoadFS(os.DirFS(dir), carScale, threshold)
}

// LoadFS reads the track images from fsys and pairs them with FilesLayout.
// Car sprites are scaled by carScale.
func LoadFS(fsys fs.FS, carScale float64, threshold uint8) (*Bundle, error) {
	if carScale <= 0 {
		return nil, fmt.Errorf("%w: car scale %v must be positive", ErrAsset, carScale)
	}
	imgs := make(map[string]image.Image, 6)
	for _, name := range []string{FileGrass, FileTrack, FileTrackBorder, FileFinish, FilePlayerCar, FileComputerCar} {
		img, err := decode(fsys, name)
		if err != nil {
			return nil, err
		}
		imgs[name] = img
	}
	if imgs[FileTrack].Bounds().Size() != imgs[FileTrackBorder].Bounds().Size() {
		return nil, fmt.Errorf("%w: %s is %v but %s is %v", ErrAsset,
			FileTrackBorder, imgs[FileTrackBorder].Bounds().Size(),
			FileTrack, imgs[FileTrack].Bounds().Size())
	}

	b := &Bundle{
		Grass:       imgs[FileGrass],
		Track:       imgs[FileTrack],
		Border:      imgs[FileTrackBorder],
		Finish:      imgs[FileFinish],
		PlayerCar:   Scale(imgs[FilePlayerCar], carScale),
		ComputerCar: Scale(imgs[FileComputerCar], carScale),
		Layout:      FilesLayout(),
	}
	if err := b.buildMasks(threshold); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bundle) buildMasks(threshold uint8) error {
	b.BorderMask = race.MaskFromImage(b.Border, threshold)
	b.FinishMask = race.MaskFromImage(b.Finish, threshold)
	b.PlayerMask = race.MaskFromImage(b.PlayerCar, threshold)
	b.ComputerMask = race.MaskFromImage(b.ComputerCar, threshold)
	for name, m := range map[string]*race.Mask{
		FileTrackBorder: b.BorderMask,
		FileFinish:      b.FinishMask,
		FilePlayerCar:   b.PlayerMask,
		FileComputerCar: b.ComputerMask,
	} {
		if m.Count() == 0 {
			return fmt.Errorf("%w: %s has no opaque pixels", ErrAsset, name)
		}
	}
	return nil
}

func decode(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAsset, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrAsset, name, err)
	}
	return img, nil
}

// Scale resizes img by factor with nearest-neighbour sampling, rounding
// the target size.
func Scale(img image.Image, factor float64) *image.NRGBA {
	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * factor))
	h := int(math.Round(float64(b.Dy()) * factor))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// NRGBA returns img as a zero-origin NRGBA image, copying when needed.
func NRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return dst
}

// Average is the mean opaque colour of img, used for downsampled views.
func Average(img image.Image, r image.Rectangle) color.NRGBA {
	r = r.Intersect(img.Bounds())
	var sr, sg, sb, n uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A <= race.DefaultAlphaThreshold {
				continue
			}
			sr += uint64(c.R)
			sg += uint64(c.G)
			sb += uint64(c.B)
			n++
		}
	}
	if n == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n), A: 255}
}

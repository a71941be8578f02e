package viou

import (
	"fmt"
	"path/filepath"

	"gocv.io/x/gocv"
)

// FrameSource resolves 1-based frame numbers to decoded frames.  A frame
// that cannot be decoded is a fatal error, tracking cannot continue with
// a hole in the frame sequence.
type FrameSource interface {
	// Frame returns the decoded image for the given frame number
	Frame(num int) (gocv.Mat, error)
	// Close releases any resources held by the source
	Close()
}

// PatternSource reads individual frame images from a directory on demand,
// resolving frame numbers to file names with a printf style pattern,
// eg: "img%06d.jpg"
type PatternSource struct {
	dir     string
	pattern string
}

// NewPatternSource returns a PatternSource reading frames from the given
// directory using the file name pattern
func NewPatternSource(dir, pattern string) *PatternSource {
	return &PatternSource{
		dir:     dir,
		pattern: pattern,
	}
}

// Frame reads and decodes the image for the given frame number
func (s *PatternSource) Frame(num int) (gocv.Mat, error) {

	file := filepath.Join(s.dir, fmt.Sprintf(s.pattern, num))
	img := gocv.IMRead(file, gocv.IMReadColor)

	if img.Empty() {
		return gocv.Mat{}, fmt.Errorf("could not read frame %d from file %s",
			num, file)
	}

	return img, nil
}

// Close implements FrameSource.  A PatternSource holds no resources
func (s *PatternSource) Close() {}

// VideoSource buffers all frames of a video file into memory so earlier
// frames remain addressable for rendering after tracking completes
type VideoSource struct {
	frames []gocv.Mat
}

// NewVideoSource opens the given video file and buffers all of its frames
func NewVideoSource(file string) (*VideoSource, error) {

	video, err := gocv.VideoCaptureFile(file)

	if err != nil {
		return nil, fmt.Errorf("error opening video file: %w", err)
	}

	defer video.Close()

	v := &VideoSource{
		frames: make([]gocv.Mat, 0),
	}

	for {
		img := gocv.NewMat()

		// read the next frame from the video
		if ok := video.Read(&img); !ok {
			// reached last video frame
			img.Close()
			break
		}

		if img.Empty() {
			img.Close()
			continue
		}

		v.frames = append(v.frames, img)
	}

	if len(v.frames) == 0 {
		return nil, fmt.Errorf("video file %s contains no frames", file)
	}

	return v, nil
}

// Frame returns the buffered frame for the given 1-based frame number
func (v *VideoSource) Frame(num int) (gocv.Mat, error) {

	if num < 1 || num > len(v.frames) {
		return gocv.Mat{}, fmt.Errorf("frame %d is outside the video range 1-%d",
			num, len(v.frames))
	}

	return v.frames[num-1], nil
}

// Len returns the number of buffered frames
func (v *VideoSource) Len() int {
	return len(v.frames)
}

// Close releases all buffered frames
func (v *VideoSource) Close() {
	for _, f := range v.frames {
		f.Close()
	}

	v.frames = nil
}

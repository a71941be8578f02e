package tracker

// Detection represents a single object detection fed into a Session.
// Detections are input only, any score floor, class or region filtering
// is expected to have been applied before they reach the Session
type Detection struct {
	// Box is the bounding box of the detected object
	Box Rect
	// Score is the confidence of the detection
	Score float32
	// Label is the class label of the detected object
	Label int
}

// NewDetection is a constructor function for the Detection struct
func NewDetection(box Rect, score float32, label int) Detection {
	return Detection{
		Box:   box,
		Score: score,
		Label: label,
	}
}

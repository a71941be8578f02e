/*
go-viou implements online multi-object tracking using the V-IOU method,
extending frame to frame IOU association with short term visual tracking
to bridge gaps in the detections.  See "Extending IOU Based Multi-Object
Tracking by Visual Information" by E. Bochinski, T. Senst, and T. Sikora
for more information.

The tracking core lives in the tracker subpackage and is driven one frame
at a time through a tracker.Session.  Visual trackers backed by OpenCV
(via GoCV) are provided by the vistrack subpackage, MOT challenge file
loading and detection filtering by the mot subpackage, and result
rendering by the render subpackage.

This root package provides the frame sources and label file helpers used
by the example programs in the example subdirectory.
*/
package viou

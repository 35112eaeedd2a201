// Package analysis provides closed-form hydrostatic references used to
// cross-check sampled curves.
//
//   - [SphereWaterline]: waterline of a floating sphere from the spherical-cap volume
//   - [BoxDraft]: even-keel draft of a rectangular barge
//   - [BoxMetacentricHeight]: initial GM of a rectangular barge
//   - [BoxRightingArm]: wall-sided righting arm of a rectangular barge
//
// # Wall-sided formula
//
// For a box, the righting arm stays exact while the deck edge is dry and the
// bilge is wet:
//
//	GZ = sin(phi) * (GM + BM/2 * tan^2(phi))
package analysis

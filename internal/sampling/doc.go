// Package sampling computes GZ curves from a Monte-Carlo point cloud.
//
// The pipeline, leaves first:
//
//   - [Sampler]: rejection-samples a uniform cloud inside a [hydro.Solid]
//   - [LocateWaterline]: order-statistics interpolation of the waterline
//   - [BuoyancyCenter]: centroid of the submerged subset
//   - [Generator]: rolls the cloud per heel angle and derives the righting arm
//   - [Ensemble]: repeats a curve over consecutive seeds
//
// The cloud is sampled once per curve. Every heel angle works on a rigid
// transform of that cloud, so angles are independent and run concurrently.
//
// # Accuracy
//
// Each point stands for volume/N of the hull. Waterline and buoyancy center
// errors shrink roughly as 1/sqrt(N); sampling time grows with the ratio of
// bounding-box volume to hull volume, which is poor for thin hulls.
package sampling

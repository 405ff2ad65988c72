// Package paths provides rules about filesystem references in the config.
//
//   - CP01: Missing Project Path - project_path does not exist here
//   - CP02: Missing Video - a video in video_sets does not exist here
//
// Projects move between machines, so these are advisory.
package paths

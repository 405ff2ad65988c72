// Package training provides rules about training and labeling parameters.
//
//   - CT01: Low Training Fraction - split leaves few frames to train on
//   - CT02: Few Frames to Label - numframes2pick below a useful minimum
package training

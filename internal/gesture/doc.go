// Package gesture recognizes touch and button gestures from raw input events.
//
// A Recognizer consumes input.Event values in order and produces an output
// stream that contains every raw event (passthrough) followed, when
// classification succeeds, by the resulting Gesture.
//
// # Strokes
//
// Each finger path from Down to Up is classified by Classify into a Tap,
// Swipe, Arrow or Corner. When several fingers overlap in time their strokes
// are queued until the last finger lifts; Combine then merges two strokes
// into a MultiTap, MultiSwipe, Pinch, Spread, Rotate or Cross. Three or more
// strokes are discarded.
//
// # Holds
//
// Every Down and Pressed arms a short hold check. When it fires and the
// finger is still alone and has not moved beyond the jitter tolerance, a
// HoldFingerShort is emitted, the contact is marked held (its Up produces no
// stroke) and a long check is armed from the same origin. Buttons follow the
// same two tiers without geometry. Checks are never cancelled; they
// re-validate the registry and give up silently when the touch is gone, a
// second finger arrived, or the id was reused by a newer touch.
//
// # Usage
//
//	r, err := gesture.New(gesture.DefaultConfig(226))
//	if err != nil {
//	    return err
//	}
//	out, err := r.Run(ctx, rawEvents)
//	for ev := range out {
//	    if ev.IsGesture() {
//	        handle(ev.Gesture)
//	    }
//	}
package gesture

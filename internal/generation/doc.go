// Package generation builds quiz questions from a unit's vocabulary. For each
// word the Engine produces a translate task with three distractors drawn from
// the other words of the unit, a fill-in-the-blank task and a listen-and-type
// task, then shuffles them and assigns each a stable position in the lesson.
//
// All randomness flows through a RandomSource so runs can be made
// deterministic in tests.
package generation

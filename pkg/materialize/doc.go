// Package materialize turns a registered template into a directory tree.
//
// Service.Materialize is the single entry point. One run resolves options,
// locates the template source (local path, cached clone or throwaway
// clone), checks every precondition that can be checked without writing,
// runs the pre-init hook, executes the git mode and finally runs the
// post-init hook:
//
//	resolve options -> compile excludes -> resolve source -> target checks
//	  -> pre-flight -> pre-init hook -> git mode (copy / clone) -> post-init hook
//
// Failures after writing has started are reported without rollback; the
// error says what was left behind where that matters.
package materialize

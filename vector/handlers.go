// Copyright (c) The hpm-riscv-rt authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package vector

// Named exception handlers, indexed by mcause exception code. Empty slots
// are reserved codes. Applications override these by exporting a symbol with
// the matching name.
var ExceptionHandlers = [16]string{
	"InstructionMisaligned", // 0
	"InstructionFault",      // 1
	"IllegalInstruction",    // 2
	"Breakpoint",            // 3
	"LoadMisaligned",        // 4
	"LoadFault",             // 5
	"StoreMisaligned",       // 6
	"StoreFault",            // 7
	"UserEnvCall",           // 8
	"SupervisorEnvCall",     // 9
	"",                      // 10 (reserved)
	"MachineEnvCall",        // 11
	"InstructionPageFault",  // 12
	"LoadPageFault",         // 13
	"",                      // 14 (reserved)
	"StorePageFault",        // 15
}

// Named core interrupt handlers, indexed by mcause interrupt code.
var CoreInterruptHandlers = [14]string{
	"",                   // 0 (reserved)
	"SupervisorSoft",     // 1
	"",                   // 2 (reserved)
	"MachineSoft",        // 3 - PLICSW
	"",                   // 4 (reserved)
	"SupervisorTimer",    // 5
	"",                   // 6 (reserved)
	"MachineTimer",       // 7 - MCHTMR
	"",                   // 8 (reserved)
	"SupervisorExternal", // 9
	"",                   // 10 (reserved)
	"MachineExternal",    // 11
	"",                   // 12 (coprocessor, reserved)
	"",                   // 13 (host, reserved)
}

// Reserved dispatch symbols.
const (
	// CoreLocalHandler is the entry 0 combined dispatch target
	CoreLocalHandler = "CORE_LOCAL"
	// DefaultHandler is the generic unhandled-interrupt stub
	DefaultHandler = "DefaultHandler"
	// ExceptionHandler is the generic exception fallback
	ExceptionHandler = "ExceptionHandler"
)

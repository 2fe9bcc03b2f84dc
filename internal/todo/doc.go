// Package todo owns the task and category collections.
//
// A TaskRepository holds tasks newest first and a CategoryRepository holds
// categories in creation order. Both keep their collection in memory and hand
// the whole collection to a saver after every mutation:
//
//	[
//	  {
//	    "id": 1704844800000,
//	    "title": "Buy milk",
//	    "category": "shopping",
//	    "priority": "low",
//	    "dueDate": "2024-01-10",
//	    "completed": false,
//	    "createdAt": "2024-01-10T00:00:00Z"
//	  }
//	]
//
// # Identifiers
//
// Task identifiers are creation timestamps in unix milliseconds. When two
// tasks are created within the same millisecond the later one gets the next
// free value, so identifiers stay unique and increasing.
//
// Category identifiers are slugs of the category name: lowercased, with every
// run of whitespace replaced by a single hyphen. The "all" category is
// reserved and always present.
//
// # Notifications
//
// Repositories report every mutation to a Notifier. Events carrying a Message
// are meant to be shown to the user; failed saves arrive as EventSaveFailed.
package todo

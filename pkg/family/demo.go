package family

// Demo returns a small three-generation family used by `familytree demo`
// and in examples: John Smith (p1) with two wives, his parents, and
// grandchildren through his eldest son Robert (p3).
func Demo() *FamilyData {
	return &FamilyData{
		People: []Person{
			{ID: "p1", FirstName: "John", LastName: "Smith", Sex: SexMale, BirthDate: "1950-05-15", DeathDate: "2015-08-20", Notes: "Family patriarch"},
			{ID: "p2", FirstName: "Mary", LastName: "Smith", Sex: SexFemale, BirthDate: "1952-03-22", Notes: "Family matriarch"},
			{ID: "p3", FirstName: "Robert", LastName: "Smith", Sex: SexMale, BirthDate: "1975-10-10", Notes: "Eldest son"},
			{ID: "p4", FirstName: "Susan", LastName: "Johnson", Sex: SexFemale, BirthDate: "1977-06-18", Notes: "Robert's wife"},
			{ID: "p5", FirstName: "Emily", LastName: "Smith", Sex: SexFemale, BirthDate: "2005-02-01", Notes: "Robert's daughter"},
			{ID: "p6", FirstName: "Michael", LastName: "Smith", Sex: SexMale, BirthDate: "2008-09-14", Notes: "Robert's son"},
			{ID: "p7", FirstName: "Linda", LastName: "Davis", Sex: SexFemale, BirthDate: "1978-12-05", Notes: "Second wife of John"},
			{ID: "p8", FirstName: "David", LastName: "Smith", Sex: SexMale, BirthDate: "1982-04-30", Notes: "Youngest son"},
			{ID: "p9", FirstName: "Sarah", LastName: "Smith", Sex: SexFemale, BirthDate: "1985-07-25", Notes: "Daughter from second marriage"},
			{ID: "p10", FirstName: "James", LastName: "Unknown", Sex: SexMale, BirthDate: "1920-01-01", DeathDate: "1990-01-01", Notes: "John's father"},
			{ID: "p11", FirstName: "Margaret", LastName: "Unknown", Sex: SexFemale, BirthDate: "1922-01-01", DeathDate: "1995-01-01", Notes: "John's mother"},
		},
		ParentChildEdges: []ParentChildEdge{
			{ParentID: "p1", ChildID: "p3", Kind: KindBiological},
			{ParentID: "p2", ChildID: "p3", Kind: KindBiological},
			{ParentID: "p1", ChildID: "p8", Kind: KindBiological},
			{ParentID: "p7", ChildID: "p8", Kind: KindBiological},
			{ParentID: "p1", ChildID: "p9", Kind: KindBiological},
			{ParentID: "p7", ChildID: "p9", Kind: KindBiological},
			{ParentID: "p3", ChildID: "p5", Kind: KindBiological},
			{ParentID: "p4", ChildID: "p5", Kind: KindBiological},
			{ParentID: "p3", ChildID: "p6", Kind: KindBiological},
			{ParentID: "p4", ChildID: "p6", Kind: KindBiological},
			{ParentID: "p10", ChildID: "p1", Kind: KindUnknown},
			{ParentID: "p11", ChildID: "p1", Kind: KindUnknown},
		},
		SpouseEdges: []SpouseEdge{
			{AID: "p1", BID: "p2"},
			{AID: "p3", BID: "p4"},
			{AID: "p1", BID: "p7"},
		},
	}
}
